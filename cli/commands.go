package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	File      string `help:"Expense data file." short:"f" env:"EXPENSES_FILE" type:"path"`
	Config    string `help:"Configuration file (YAML)." env:"EXPENSES_CONFIG" type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." name:"log-level"`
	ThemeName string `help:"Color theme (dark, light, auto)." name:"theme"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Add        AddCmd        `cmd:"" help:"Add an expense."`
	List       ListCmd       `cmd:"" aliases:"ls" help:"List expenses, newest first."`
	Edit       EditCmd       `cmd:"" help:"Edit an expense."`
	Delete     DeleteCmd     `cmd:"" aliases:"rm" help:"Delete an expense."`
	Dashboard  DashboardCmd  `cmd:"" help:"Show totals, budget and recent expenses."`
	Report     ReportCmd     `cmd:"" help:"Write the plain text expense report."`
	Export     ExportCmd     `cmd:"" help:"Export expenses as CSV."`
	Months     MonthsCmd     `cmd:"" help:"Show spending per month."`
	Categories CategoriesCmd `cmd:"" help:"Show spending per category."`
	Budget     BudgetCmd     `cmd:"" help:"Show or set the budget."`
	Clear      ClearCmd      `cmd:"" help:"Delete all expenses and reset the budget."`
	Theme      ThemeCmd      `cmd:"" help:"Show or change the color theme."`
	Serve      ServeCmd      `cmd:"" help:"Start the local JSON API."`
}
