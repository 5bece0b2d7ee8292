package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// exportColumns defines the ordered output columns, scoring signals first.
var exportColumns = []string{
	"priority_score",
	"uses_lightspeed",
	"pos_platform",
	"brand_name",
	"location_count",
	"website",
	"detected_marketplaces",
	"tech_stack",
	"has_ecommerce",
	"ecommerce_platform",
	"marketplaces",
	"priority",
	"cities",
	"linkedin_company",
	"employee_count",
	"industry",
	"qualified",
	"disqualify_reason",
	"contact_1_name", "contact_1_title", "contact_1_email", "contact_1_phone", "contact_1_linkedin",
	"contact_2_name", "contact_2_title", "contact_2_email", "contact_2_phone", "contact_2_linkedin",
	"contact_3_name", "contact_3_title", "contact_3_email", "contact_3_phone", "contact_3_linkedin",
	"contact_4_name", "contact_4_title", "contact_4_email", "contact_4_phone", "contact_4_linkedin",
}

// export writes leads to the configured format. Qualified leads come first
// sorted by score descending; disqualified rows follow with their reason.
func (p *Pipeline) export(leads []*model.Lead, opts Options) (string, error) {
	format := p.cfg.Export.Format
	if opts.Format != "" {
		format = opts.Format
	}

	path := opts.OutputPath
	if path == "" {
		if err := os.MkdirAll(p.cfg.Export.OutputDir, 0o755); err != nil {
			return "", eris.Wrap(err, "export: create output dir")
		}
		name := fmt.Sprintf("leads_%s.%s", time.Now().Format("20060102_150405"), format)
		path = filepath.Join(p.cfg.Export.OutputDir, name)
	}

	ordered := make([]*model.Lead, len(leads))
	copy(ordered, leads)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Qualified != ordered[j].Qualified {
			return ordered[i].Qualified
		}
		return ordered[i].PriorityScore > ordered[j].PriorityScore
	})

	switch format {
	case "xlsx":
		return path, writeXLSX(ordered, path)
	default:
		return path, writeCSV(ordered, path)
	}
}

func writeCSV(leads []*model.Lead, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(exportColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, lead := range leads {
		if err := w.Write(buildRow(lead)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "export: flush")
}

func writeXLSX(leads []*model.Lead, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range exportColumns {
		header.AddCell().SetString(col)
	}
	for _, lead := range leads {
		row := sheet.AddRow()
		for _, val := range buildRow(lead) {
			row.AddCell().SetString(val)
		}
	}

	return eris.Wrap(f.Save(path), "export: save xlsx")
}

func buildRow(l *model.Lead) []string {
	cities := l.Cities
	if len(cities) > 5 {
		cities = cities[:5]
	}

	row := []string{
		strconv.Itoa(l.PriorityScore),
		strconv.FormatBool(l.UsesLightspeed),
		l.POSPlatform,
		l.BrandName,
		strconv.Itoa(l.LocationCount),
		l.Website,
		strings.Join(l.DetectedMarketplaces, ", "),
		strings.Join(l.TechnologyNames, ", "),
		strconv.FormatBool(l.HasEcommerce),
		l.EcommercePlatform,
		strings.Join(l.Marketplaces, ", "),
		string(l.Priority),
		strings.Join(cities, ", "),
		l.CompanyProfileURL,
		l.EmployeeCount,
		l.Industry,
		strconv.FormatBool(l.Qualified),
		l.DisqualifyReason,
	}
	for _, c := range l.Contacts {
		row = append(row, c.Name, c.Title, c.Email, c.Phone, c.LinkedIn)
	}
	return row
}
