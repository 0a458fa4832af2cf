package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/tier"
)

func newUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade [free|study_plus|pro]",
		Short: "Compare plans or change your plan",
		Long: `Without an argument, show the plans with your current one marked.
With a plan name, move your account to that plan.

Upgrades are simulated in this demo; no payment is taken.

Examples:
  markup upgrade
  markup upgrade study_plus
  markup upgrade pro --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)
			snap, err := a.session(ctx)
			if err != nil {
				return err
			}
			current := tier.Free
			if snap.User != nil {
				current = snap.User.Tier.OrFree()
			}

			if len(args) == 0 {
				return a.out.Format(plansView{Current: current, Plans: tier.Plans})
			}

			target, err := tier.Parse(args[0])
			if err != nil {
				return UnknownTierError(args[0])
			}
			if snap.User != nil && target == current {
				return a.out.Format(upgradeView{
					UpgradeResult: session.UpgradeResult{Previous: current, Tier: current},
					AlreadyOnPlan: true,
				})
			}

			result, err := a.store.UpgradeTier(ctx, target)
			if err != nil {
				return err
			}
			return a.out.Format(upgradeView{UpgradeResult: *result})
		},
	}
}
