package output

// DefaultAssumptions lists the modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Each account's annual return is drawn independently from a Normal distribution (no cross-account or year-to-year correlation)",
	"Contributions grow with inflation and stop at retirement age",
	"Retirement expenses grow with inflation and are drawn in order: HSA, 401(k), Brokerage, Roth IRA",
	"Accounts outside that order (real estate, custom accounts) are never drawn from",
	"Projection uses Monte Carlo averaged returns; the distribution tracks accumulation only (no withdrawals)",
	"No taxes, fees or required minimum distributions are modeled",
}
