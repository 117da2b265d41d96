package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/arnavshah/vendor-match-api/pkg/app"
	"github.com/arnavshah/vendor-match-api/pkg/logger"
	"github.com/arnavshah/vendor-match-api/pkg/metrics"
	"github.com/arnavshah/vendor-match-api/pkg/models"
	"github.com/arnavshah/vendor-match-api/pkg/scorer"
	"github.com/arnavshah/vendor-match-api/pkg/vendorcsv"
	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var (
	requestFile string
	vendorsFile string
	city        string
	budget      string
	guests      int
	style       string
	weddingDate string
	rankFormat  string
	concurrency int
	top         int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank vendors against wedding requirements",
	Long: `Score and rank vendors locally using the configured weights.

Examples:
  # Rank a full JSON request, as accepted by POST /api/rank
  vendorctl rank --request request.json

  # Rank a vendor CSV
  vendorctl rank --vendors vendors.csv --city Mumbai --budget "20-30 lakh" --guests 300 --style traditional

  # Emit CSV using 4 workers
  vendorctl rank --request request.json --format csv --concurrency 4`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVar(&requestFile, "request", "", "Path to a JSON ranking request")
	rankCmd.Flags().StringVar(&vendorsFile, "vendors", "", "Path to a vendor CSV file")
	rankCmd.Flags().StringVar(&city, "city", "", "Wedding city (with --vendors)")
	rankCmd.Flags().StringVar(&budget, "budget", "", "Total budget, e.g. \"20-30 lakh\" (with --vendors)")
	rankCmd.Flags().IntVar(&guests, "guests", 0, "Guest count (with --vendors)")
	rankCmd.Flags().StringVar(&style, "style", "", "Wedding style (with --vendors)")
	rankCmd.Flags().StringVar(&weddingDate, "date", "", "Wedding date (with --vendors)")
	rankCmd.Flags().StringVar(&rankFormat, "format", "table", "Output format (table, json, csv)")
	rankCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Score with this many workers (0 scores sequentially)")
	rankCmd.Flags().IntVar(&top, "top", 0, "Only print the best N vendors")
}

func runRank(cmd *cobra.Command, args []string) error {
	if (requestFile == "") == (vendorsFile == "") {
		return errors.New("exactly one of --request or --vendors must be specified")
	}

	in, err := readRankRequest()
	if err != nil {
		return err
	}
	v := validator.New()
	v.SetTagName("binding")
	if err := v.Struct(in); err != nil {
		return fmt.Errorf("invalid ranking request: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.Must(cfg.Logging.Level, "console")
	defer func() { _ = log.Sync() }()

	sc, err := app.NewScorer(cfg, log)
	if err != nil {
		return err
	}

	req := in.Requirements()
	var ranked []models.ScoredVendor
	if concurrency > 0 {
		ranked, err = sc.RankConcurrent(context.Background(), req, in.Vendors, concurrency)
	} else {
		ranked, err = sc.Rank(req, in.Vendors)
	}
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}
	metrics.RankingsTotal.WithLabelValues(metrics.SourceCLI).Inc()
	metrics.VendorsScored.WithLabelValues(metrics.SourceCLI).Add(float64(len(ranked)))

	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	out := cmd.OutOrStdout()
	switch rankFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.RankResponse{Requirements: req, Count: len(ranked), Vendors: ranked})
	case "csv":
		return vendorcsv.Write(out, ranked)
	case "table":
		return printRanking(out, ranked)
	default:
		return fmt.Errorf("unknown format %q", rankFormat)
	}
}

func readRankRequest() (models.RankRequest, error) {
	var in models.RankRequest
	if requestFile != "" {
		raw, err := os.ReadFile(requestFile)
		if err != nil {
			return in, fmt.Errorf("failed to read request: %w", err)
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			return in, fmt.Errorf("failed to parse request: %w", err)
		}
		return in, nil
	}

	f, err := os.Open(vendorsFile)
	if err != nil {
		return in, fmt.Errorf("failed to open vendors: %w", err)
	}
	defer f.Close()

	vendors, err := vendorcsv.Read(f)
	if err != nil {
		return in, err
	}
	return models.RankRequest{
		City:        city,
		Budget:      budget,
		GuestCount:  guests,
		Style:       style,
		WeddingDate: weddingDate,
		Vendors:     vendors,
	}, nil
}

var tierColors = map[string]*color.Color{
	scorer.TierPerfectMatch: color.New(color.FgGreen, color.Bold),
	scorer.TierGreatMatch:   color.New(color.FgGreen),
	scorer.TierGoodMatch:    color.New(color.FgCyan),
	scorer.TierFairMatch:    color.New(color.FgYellow),
	scorer.TierPoorMatch:    color.New(color.FgRed),
}

func printRanking(out io.Writer, ranked []models.ScoredVendor) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tVENDOR\tCATEGORY\tSCORE\tTIER\tCONFIDENCE\tALLOCATED")
	for i, v := range ranked {
		tier := v.RecommendationTier
		if c, ok := tierColors[tier]; ok {
			tier = c.Sprint(tier)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%s\t%s\t%s\n",
			i+1, v.Name, v.Category, v.OverallScore, tier, v.ConfidenceLevel, scorer.FormatINR(v.AllocatedBudget))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for i, v := range ranked {
		if len(v.Warnings) == 0 {
			continue
		}
		fmt.Fprintf(out, "%d. %s: %s\n", i+1, v.Name, color.YellowString(strings.Join(v.Warnings, "; ")))
	}
	return nil
}
