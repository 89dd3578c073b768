// gridpricer prices European vanilla and knock-out barrier options with a
// Crank-Nicolson finite-difference engine, cross-checked against closed
// forms, a binomial tree, and Monte Carlo.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/contactkeval/gridpricer/internal/data"
	"github.com/contactkeval/gridpricer/internal/logger"
	"github.com/contactkeval/gridpricer/internal/pde"
	"github.com/contactkeval/gridpricer/internal/pricing"
	"github.com/contactkeval/gridpricer/internal/report"
	"github.com/contactkeval/gridpricer/internal/server"
	"github.com/contactkeval/gridpricer/internal/sweep"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "gridpricer",
	Short: "Finite-difference option pricer",
	Long: `gridpricer solves the Black-Scholes PDE with a Crank-Nicolson scheme
to price European vanilla and knock-out barrier options, and carries the
usual validation collaborators (closed-form Black-Scholes, Reiner-Rubinstein,
CRR binomial tree, Monte Carlo) for cross-checking.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbosity(verbosity)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 1, "log verbosity: 0=errors 1=info 2=debug 3=trace")

	rootCmd.AddCommand(newPriceCmd())
	rootCmd.AddCommand(newBarrierCmd())
	rootCmd.AddCommand(newAnalyticCmd())
	rootCmd.AddCommand(newConvergeCmd())
	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newServeCmd())
}

// marketFlags registers the shared economic flags.
func marketFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("spot", 0, "spot price of the underlying")
	cmd.Flags().String("symbol", "", "resolve spot from a ticker instead of --spot (requires POLYGON_API_KEY for live data)")
	cmd.Flags().Float64("strike", 100, "strike price")
	cmd.Flags().Float64("rate", 0.05, "risk-free rate (continuously compounded)")
	cmd.Flags().Float64("vol", 0.2, "annualized volatility")
	cmd.Flags().Float64("maturity", 1, "time to maturity in years")
}

func gridFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("smax", 0, "domain truncation bound (0 = 4x strike)")
	cmd.Flags().Int("space-steps", pde.DefaultGridSpec.SpaceSteps, "spatial grid resolution N_S")
	cmd.Flags().Int("time-steps", pde.DefaultGridSpec.TimeSteps, "time step count N_t")
}

func resolveMarket(cmd *cobra.Command) (pde.Market, error) {
	spot, _ := cmd.Flags().GetFloat64("spot")
	symbol, _ := cmd.Flags().GetString("symbol")
	strike, _ := cmd.Flags().GetFloat64("strike")
	rate, _ := cmd.Flags().GetFloat64("rate")
	vol, _ := cmd.Flags().GetFloat64("vol")
	maturity, _ := cmd.Flags().GetFloat64("maturity")

	if symbol != "" {
		px, err := data.GetProvider().SpotPrice(symbol)
		if err != nil {
			return pde.Market{}, fmt.Errorf("resolving spot for %s: %w", symbol, err)
		}
		logger.Infof("resolved %s spot = %.2f", symbol, px)
		spot = px
	}
	if spot <= 0 {
		return pde.Market{}, fmt.Errorf("either --spot or --symbol is required")
	}

	return pde.Market{Spot: spot, Strike: strike, Rate: rate, Vol: vol, Maturity: maturity}, nil
}

func resolveGrid(cmd *cobra.Command) pde.GridSpec {
	sMax, _ := cmd.Flags().GetFloat64("smax")
	spaceSteps, _ := cmd.Flags().GetInt("space-steps")
	timeSteps, _ := cmd.Flags().GetInt("time-steps")
	return pde.GridSpec{SMax: sMax, SpaceSteps: spaceSteps, TimeSteps: timeSteps}
}

func resolveKind(cmd *cobra.Command) pde.OptionKind {
	kind, _ := cmd.Flags().GetString("kind")
	return pde.OptionKind(kind)
}

func newPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a European vanilla option on the finite-difference grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			mkt, err := resolveMarket(cmd)
			if err != nil {
				return err
			}
			kind := resolveKind(cmd)

			price, err := pde.PriceVanilla(mkt, kind, resolveGrid(cmd))
			if err != nil {
				return err
			}

			isCall := kind == pde.Call
			closed := pricing.BlackScholesPrice(isCall, mkt.Spot, mkt.Strike, mkt.Rate, mkt.Vol, mkt.Maturity)
			logger.Debugf("closed-form reference = %.6f (grid deviation %.2e)", closed, price-closed)

			fmt.Printf("%.6f\n", price)
			return nil
		},
	}
	marketFlags(cmd)
	gridFlags(cmd)
	cmd.Flags().String("kind", "call", "option kind: call or put")
	return cmd
}

func newBarrierCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "barrier",
		Short: "Price a European knock-out barrier option on the grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			mkt, err := resolveMarket(cmd)
			if err != nil {
				return err
			}

			level, _ := cmd.Flags().GetFloat64("barrier")
			barType, _ := cmd.Flags().GetString("barrier-type")
			rebate, _ := cmd.Flags().GetFloat64("rebate")
			bar := pde.Barrier{Level: level, Type: pde.BarrierType(barType), Rebate: rebate}

			price, err := pde.PriceBarrier(mkt, resolveKind(cmd), bar, resolveGrid(cmd))
			if err != nil {
				return err
			}
			fmt.Printf("%.6f\n", price)
			return nil
		},
	}
	marketFlags(cmd)
	gridFlags(cmd)
	cmd.Flags().String("kind", "call", "option kind: call or put")
	cmd.Flags().Float64("barrier", 90, "barrier level")
	cmd.Flags().String("barrier-type", string(pde.DownAndOut), "barrier type: down-and-out or up-and-out")
	cmd.Flags().Float64("rebate", 0, "rebate paid on knockout")
	return cmd
}

func newAnalyticCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytic",
		Short: "Reiner-Rubinstein closed form for a down-and-out call",
		RunE: func(cmd *cobra.Command, args []string) error {
			mkt, err := resolveMarket(cmd)
			if err != nil {
				return err
			}
			level, _ := cmd.Flags().GetFloat64("barrier")

			price, err := pde.DownAndOutCallAnalytic(mkt.Spot, mkt.Strike, level, mkt.Rate, mkt.Maturity, mkt.Vol)
			if err != nil {
				return err
			}
			fmt.Printf("%.6f\n", price)
			return nil
		},
	}
	marketFlags(cmd)
	cmd.Flags().Float64("barrier", 90, "barrier level (must satisfy 0 < B < spot)")
	return cmd
}

func newConvergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "converge",
		Short: "Grid-refinement study against the analytic references",
		Long: `Runs the finite-difference engine at doubling resolutions and tabulates
the deviation from the closed form (Black-Scholes for vanilla contracts,
Reiner-Rubinstein for a down-and-out call).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mkt, err := resolveMarket(cmd)
			if err != nil {
				return err
			}
			kind := resolveKind(cmd)
			withBarrier, _ := cmd.Flags().GetBool("barrier")
			level, _ := cmd.Flags().GetFloat64("barrier-level")

			var scenarios []sweep.Scenario
			for _, n := range []int{50, 100, 200, 400, 800} {
				sc := sweep.Scenario{
					Name:     fmt.Sprintf("n=%d", n),
					Method:   "grid",
					Kind:     string(kind),
					Spot:     mkt.Spot,
					Strike:   mkt.Strike,
					Rate:     mkt.Rate,
					Vol:      mkt.Vol,
					Maturity: mkt.Maturity,
					Grid:     sweep.GridSpec{SpaceSteps: n, TimeSteps: n},
				}
				if withBarrier {
					sc.Barrier = &sweep.BarrierSpec{Level: level, Type: string(pde.DownAndOut)}
				}
				scenarios = append(scenarios, sc)
			}

			res, err := sweep.NewEngine(&sweep.Config{Workers: 1, Scenarios: scenarios}).Run()
			if err != nil {
				return err
			}
			report.RenderTable(os.Stdout, res.Rows)
			return nil
		},
	}
	marketFlags(cmd)
	cmd.Flags().String("kind", "call", "option kind: call or put")
	cmd.Flags().Bool("barrier", false, "study the down-and-out solver instead of the vanilla one")
	cmd.Flags().Float64("barrier-level", 90, "barrier level for the barrier study")
	return cmd
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a batch of pricing scenarios from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			outDir, _ := cmd.Flags().GetString("out")

			cfg, err := sweep.LoadConfig(configPath)
			if err != nil {
				return err
			}
			res, err := sweep.NewEngine(cfg).Run()
			if err != nil {
				return err
			}

			report.RenderTable(os.Stdout, res.Rows)

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return fmt.Errorf("could not create output dir %s: %w", outDir, err)
				}
				if err := report.WriteJSON(res, outDir); err != nil {
					return err
				}
				if err := report.WriteCSV(res.Rows, outDir); err != nil {
					return err
				}
				logger.Infof("wrote %d rows to %s", len(res.Rows), outDir)
			}
			return nil
		},
	}
	cmd.Flags().String("config", "scenarios.yaml", "path to the sweep YAML config")
	cmd.Flags().String("out", "", "directory for results.json / results.csv (skip to print only)")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST pricing server",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return server.New().ListenAndServe(addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}
