package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"rota-engine/internal/importer"
	"rota-engine/internal/model"
	"rota-engine/internal/report"
	"rota-engine/internal/shift"
)

type analyzeOptions struct {
	schedule  string
	days      int
	year      int
	month     int
	locations string
	catalog   string
	out       string
	tenant    string
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	o := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a schedule file",
		Example: `  rota-engine analyze --schedule 2026-03.xlsx --year 2026 --month 3 \
    --locations pickup.json --catalog fares.toml --out report.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, root)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.schedule, "schedule", "s", "", "Schedule file (.xlsx, .xls or .json)")
	f.IntVar(&o.days, "days", 0, "Days in month (28..31)")
	f.IntVar(&o.year, "year", 0, "Calendar year, used with --month")
	f.IntVar(&o.month, "month", 0, "Calendar month 1..12, used with --year")
	f.StringVar(&o.locations, "locations", "", "JSON file mapping employee id to pickup location")
	f.StringVar(&o.catalog, "catalog", "", "Fare catalog (.toml or .yaml), overrides the config")
	f.StringVarP(&o.out, "out", "o", "", "Output file (.json or .xlsx); stdout JSON when empty")
	f.StringVar(&o.tenant, "tenant", "", "Tenant id recorded in the result")
	_ = cmd.MarkFlagRequired("schedule")
	cmd.MarkFlagsRequiredTogether("year", "month")
	cmd.MarkFlagsOneRequired("days", "month")
	return cmd
}

func (o *analyzeOptions) run(cmd *cobra.Command, root *rootOptions) error {
	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := cliLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	imported, err := importer.ReadFile(o.schedule, shift.Default())
	if err != nil {
		return fmt.Errorf("import %s: %w", o.schedule, err)
	}
	req := &model.AnalysisRequest{
		TenantID:    o.tenant,
		DaysInMonth: o.days,
		Schedule:    imported.Schedule,
	}
	if o.year != 0 || o.month != 0 {
		req.Month = fmt.Sprintf("%04d-%02d", o.year, o.month)
	}
	if o.locations != "" {
		if req.PickupLocations, err = readLocations(o.locations); err != nil {
			return err
		}
	}

	e, _, err := newEngine(cfg, o.catalog, logger, nil)
	if err != nil {
		return err
	}
	resp := e.Process(cmd.Context(), req)

	if err := o.write(cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	if resp.AnalysisMetadata.AnalysisOutcome != model.OutcomeSuccess {
		return fmt.Errorf("analysis %s failed: %s", resp.AnalysisMetadata.AnalysisID, criticalMessages(resp))
	}
	return nil
}

func (o *analyzeOptions) write(stdout io.Writer, resp *model.AnalysisResponse) error {
	if o.out == "" {
		return writeJSON(stdout, resp)
	}
	f, err := os.Create(o.out)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(o.out), ".xlsx") {
		err = report.Write(f, resp)
	} else {
		err = writeJSON(f, resp)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func readLocations(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var locations map[string]string
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return locations, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func criticalMessages(resp *model.AnalysisResponse) string {
	var parts []string
	for _, m := range resp.AnalysisResult.Messages {
		if m.Level == model.LevelCritical {
			parts = append(parts, m.Code+": "+m.Message)
		}
	}
	return strings.Join(parts, "; ")
}
