// Package export writes pipeline reports to spreadsheet workbooks for the
// sales team.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-intel/internal/model"
)

// WriteMLReport writes a lead intelligence report to an xlsx workbook with
// Summary, Top Leads, At Risk, and Recommendations sheets.
func WriteMLReport(report *model.MLReport, path string) error {
	if report.Status != model.ReportSuccess {
		return eris.Errorf("export: cannot export a %s report", report.Status)
	}

	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	addKV(summary, "Report ID", report.ReportID)
	addKV(summary, "Generated", report.Timestamp.Format("2006-01-02 15:04:05 MST"))
	addKV(summary, "Total Leads", fmt.Sprintf("%d", report.Summary.TotalLeads))
	addKV(summary, "Skipped Rows", fmt.Sprintf("%d", report.Summary.SkippedRows))
	addKV(summary, "Average Score", fmt.Sprintf("%.2f", report.Summary.AverageScore))
	addKV(summary, "At Risk", fmt.Sprintf("%d", report.Summary.AtRiskCount))
	addKV(summary, "Hot Leads", fmt.Sprintf("%d", report.Summary.PriorityDistribution[model.TierHot]))
	addKV(summary, "Warm Leads", fmt.Sprintf("%d", report.Summary.PriorityDistribution[model.TierWarm]))
	addKV(summary, "Cold Leads", fmt.Sprintf("%d", report.Summary.PriorityDistribution[model.TierCold]))

	if err := addLeadSheet(f, "Top Leads", report.TopLeads); err != nil {
		return err
	}
	if err := addLeadSheet(f, "At Risk", report.AtRiskLeads); err != nil {
		return err
	}

	recs, err := f.AddSheet("Recommendations")
	if err != nil {
		return eris.Wrap(err, "export: add recommendations sheet")
	}
	addHeader(recs, "Lead ID", "Company", "Action", "Priority", "Rationale")
	for _, rec := range report.Recommendations {
		row := recs.AddRow()
		row.AddCell().SetInt64(rec.LeadID)
		row.AddCell().Value = rec.Company
		row.AddCell().Value = rec.Action
		row.AddCell().SetInt(rec.Priority)
		row.AddCell().Value = rec.Rationale
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// WriteGeoReport writes a geographical report to an xlsx workbook with
// Country Analysis and Market Recommendations sheets.
func WriteGeoReport(report *model.GeoReport, path string) error {
	if report.Status != model.ReportSuccess {
		return eris.Errorf("export: cannot export a %s report", report.Status)
	}

	f := xlsx.NewFile()

	countries, err := f.AddSheet("Country Analysis")
	if err != nil {
		return eris.Wrap(err, "export: add country sheet")
	}
	addHeader(countries, "Country", "Region", "Leads", "Avg Score",
		"Total Value", "Conversion", "Share", "Low Confidence")
	for _, m := range report.CountryAnalysis {
		row := countries.AddRow()
		row.AddCell().Value = m.Country
		row.AddCell().Value = m.Region
		row.AddCell().SetInt(m.LeadCount)
		row.AddCell().SetFloat(m.AverageScore)
		row.AddCell().SetFloat(m.TotalValue)
		row.AddCell().SetFloat(m.ConversionRate)
		row.AddCell().SetFloat(m.ShareOfTotal)
		row.AddCell().SetBool(m.LowConfidence)
	}

	recs, err := f.AddSheet("Market Recommendations")
	if err != nil {
		return eris.Wrap(err, "export: add market sheet")
	}
	addHeader(recs, "Country", "Recommendation", "Rationale")
	for _, rec := range report.Recommendations {
		row := recs.AddRow()
		row.AddCell().Value = rec.Country
		row.AddCell().Value = string(rec.Recommendation)
		row.AddCell().Value = rec.Rationale
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func addLeadSheet(f *xlsx.File, name string, leads []model.LeadScoreResult) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add %s sheet", name)
	}
	addHeader(sheet, "Lead ID", "Company", "Country", "Score", "Tier",
		"Churn Probability", "Churn", "Segment", "Deal Value")
	for _, l := range leads {
		row := sheet.AddRow()
		row.AddCell().SetInt64(l.LeadID)
		row.AddCell().Value = l.Company
		row.AddCell().Value = l.Country
		row.AddCell().SetFloat(l.Score)
		row.AddCell().Value = string(l.PriorityTier)
		row.AddCell().SetFloat(l.ChurnProbability)
		row.AddCell().Value = string(l.ChurnLabel)
		row.AddCell().Value = string(l.Segment)
		row.AddCell().SetFloat(l.DealValue)
	}
	return nil
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().Value = value
}

func addHeader(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, n := range names {
		row.AddCell().Value = n
	}
}
