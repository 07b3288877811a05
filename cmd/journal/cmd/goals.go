package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/journal/goals"
	"github.com/rustyeddy/journal/pkg/id"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage trading goals",
	Long: `Manage trading goals and their consequences.

Binding goals add live constraints to every rule check. When a binding goal
fails, its consequence set (cooldown, risk reduction, blocks) is applied to
the settings exactly once per failure day.

Subcommands:
  list  - show all goals
  add   - create a goal
  fail  - apply a failed goal's consequences

Examples:
  journal goals add --name "green week" --period weekly --metric pnl --target 500 --binding
  journal goals fail <goal-id>`,
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all goals",
	Args:  cobra.NoArgs,
	RunE:  runGoalsList,
}

var goalsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a goal",
	RunE:  runGoalsAdd,
}

var goalsFailCmd = &cobra.Command{
	Use:   "fail <goal-id>",
	Short: "Apply a failed goal's consequences",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsFail,
}

var (
	goalName    string
	goalPeriod  string
	goalMetric  string
	goalTarget  float64
	goalPrimary bool
	goalBinding bool

	goalCooldownHours int
	goalReduceRisk    float64
	goalPartialBlock  bool
	goalFullBlock     bool

	goalConstrainSession   string
	goalConstrainHours     string
	goalConstrainMaxTrades int
	goalConstrainMaxLoss   float64
)

func init() {
	rootCmd.AddCommand(goalsCmd)
	goalsCmd.AddCommand(goalsListCmd)
	goalsCmd.AddCommand(goalsAddCmd)
	goalsCmd.AddCommand(goalsFailCmd)

	goalsAddCmd.Flags().StringVar(&goalName, "name", "", "goal name (required)")
	goalsAddCmd.Flags().StringVar(&goalPeriod, "period", "daily", "daily, weekly, monthly or yearly")
	goalsAddCmd.Flags().StringVar(&goalMetric, "metric", "pnl", "pnl, win_rate or trade_count")
	goalsAddCmd.Flags().Float64Var(&goalTarget, "target", 0, "target value (required)")
	goalsAddCmd.Flags().BoolVar(&goalPrimary, "primary", false, "mark as the primary goal")
	goalsAddCmd.Flags().BoolVar(&goalBinding, "binding", false, "failure applies consequences")
	goalsAddCmd.Flags().IntVar(&goalCooldownHours, "cooldown-hours", 0, "consequence: lockout hours on failure")
	goalsAddCmd.Flags().Float64Var(&goalReduceRisk, "reduce-risk", 0, "consequence: percent to cut max risk per trade by")
	goalsAddCmd.Flags().BoolVar(&goalPartialBlock, "partial-block", false, "consequence: disable new trades")
	goalsAddCmd.Flags().BoolVar(&goalFullBlock, "full-block", false, "consequence: block trading entirely")
	goalsAddCmd.Flags().StringVar(&goalConstrainSession, "constrain-session", "", "constraint: only trade in this session (asian/london/overlap/newyork)")
	goalsAddCmd.Flags().StringVar(&goalConstrainHours, "constrain-hours", "", "constraint: only trade inside this hour window, e.g. 8-17")
	goalsAddCmd.Flags().IntVar(&goalConstrainMaxTrades, "constrain-max-trades", 0, "constraint: cap trades per day")
	goalsAddCmd.Flags().Float64Var(&goalConstrainMaxLoss, "constrain-max-loss", 0, "constraint: cap realized daily loss")
	goalsAddCmd.MarkFlagRequired("name")
	goalsAddCmd.MarkFlagRequired("target")
}

func runGoalsList(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	gs, err := j.ListGoals()
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}
	if len(gs) == 0 {
		fmt.Println("no goals")
		return nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc := cfg.Sessions.Location()
	now := time.Now()

	for _, g := range gs {
		flags := ""
		if g.Primary {
			flags += " primary"
		}
		if g.Binding {
			flags += " binding"
		}
		if g.Reached() {
			flags += " reached"
		}
		if created, err := id.MintTime(g.ID); err == nil {
			flags += "  created " + created.Format("2006-01-02")
		}
		start, end := g.PeriodBounds(now, loc)
		fmt.Printf("%s  %-20s %s/%s  %.2f of %.2f%s  (window %s - %s)\n",
			g.ID, g.Name, g.Period, g.Metric, g.Current, g.Target, flags,
			start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02"))
	}
	return nil
}

func runGoalsAdd(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	g := goals.Goal{
		ID:      id.New(),
		Name:    goalName,
		Period:  goals.Period(goalPeriod),
		Metric:  goals.Metric(goalMetric),
		Target:  goalTarget,
		Primary: goalPrimary,
		Binding: goalBinding,
	}
	if goalCooldownHours > 0 || goalReduceRisk > 0 || goalPartialBlock || goalFullBlock {
		g.Consequence = &goals.Consequence{
			CooldownHours: goalCooldownHours,
			ReduceRiskPct: goalReduceRisk,
			PartialBlock:  goalPartialBlock,
			FullBlock:     goalFullBlock,
		}
	}

	constraint, err := buildGoalConstraint()
	if err != nil {
		return err
	}
	g.Constraint = constraint
	if g.Constraint != nil && !g.Binding {
		fmt.Println("note: constraint only applies while the goal is binding (--binding)")
	}

	if err := j.SaveGoal(g); err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	fmt.Printf("created goal %s\n", g.ID)
	return nil
}

// buildGoalConstraint assembles the constraint descriptor from the
// --constrain-* flags. A goal carries at most one constraint.
func buildGoalConstraint() (*goals.Constraint, error) {
	var built []*goals.Constraint

	if goalConstrainSession != "" {
		built = append(built, &goals.Constraint{
			Kind:    goals.ConstraintSession,
			Session: goalConstrainSession,
		})
	}
	if goalConstrainHours != "" {
		start, end, err := parseHourWindow(goalConstrainHours)
		if err != nil {
			return nil, err
		}
		built = append(built, &goals.Constraint{
			Kind:      goals.ConstraintHours,
			StartHour: start,
			EndHour:   end,
		})
	}
	if goalConstrainMaxTrades > 0 {
		built = append(built, &goals.Constraint{
			Kind:      goals.ConstraintMaxTrades,
			MaxTrades: goalConstrainMaxTrades,
		})
	}
	if goalConstrainMaxLoss > 0 {
		built = append(built, &goals.Constraint{
			Kind:    goals.ConstraintMaxLoss,
			MaxLoss: goalConstrainMaxLoss,
		})
	}

	switch len(built) {
	case 0:
		return nil, nil
	case 1:
		return built[0], nil
	default:
		return nil, fmt.Errorf("a goal takes at most one --constrain-* flag")
	}
}

func parseHourWindow(s string) (int, int, error) {
	var start, end int
	if _, err := fmt.Sscanf(s, "%d-%d", &start, &end); err != nil {
		return 0, 0, fmt.Errorf("hour window %q: want START-END, e.g. 8-17", s)
	}
	if start < 0 || start > 23 || end < 0 || end > 23 {
		return 0, 0, fmt.Errorf("hour window %q: hours run 0-23", s)
	}
	return start, end, nil
}

func runGoalsFail(cmd *cobra.Command, args []string) error {
	engine, j, cfg, err := buildEngine()
	if err != nil {
		return err
	}
	defer j.Close()

	goalID := args[0]
	var failed *goals.Goal
	for i := range engine.Goals {
		if engine.Goals[i].ID == goalID {
			failed = &engine.Goals[i]
			break
		}
	}
	if failed == nil {
		return fmt.Errorf("goal %q not found", goalID)
	}
	if !failed.Binding {
		return fmt.Errorf("goal %q is not binding; it carries no consequences", goalID)
	}
	if failed.Reached() {
		return fmt.Errorf("goal %q met its target (%.2f of %.2f); nothing to apply",
			goalID, failed.Current, failed.Target)
	}

	patch, err := engine.ApplyGoalConsequences(*failed, j)
	if err != nil {
		return fmt.Errorf("apply consequences: %w", err)
	}
	if patch == nil {
		fmt.Println("nothing to apply (no consequences, or already applied today)")
		return nil
	}

	if err := saveConfig(cfg); err != nil {
		return err
	}

	log.Info().Str("goal", patch.GoalID).Str("date", patch.FailureDate).Msg("goal consequences applied")
	if patch.RiskMultiplier != 1 {
		fmt.Printf("max risk per trade reduced to %.2f%%\n", cfg.Risk.MaxRiskPerTradePct)
	}
	if patch.Cooldown > 0 {
		fmt.Printf("lockout until %s\n", cfg.Lockout.BlockedUntil.Format("2006-01-02 15:04"))
	}
	if patch.PartialBlock {
		fmt.Println("new trade creation disabled")
	}
	if patch.FullBlock {
		fmt.Println("trading fully blocked")
	}
	return nil
}
