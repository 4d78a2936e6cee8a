package report

import (
	"bytes"
	"time"
	"younv/records"
	"younv/utils"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	SHEET_LEADS   = "Leads"
	SHEET_SUMMARY = "Resumo"
)

type column struct {
	Header string
	Field  string
	Width  float64
}

var leadColumns = []column{
	{"Paciente", "nome_paciente", 28},
	{"Telefone", "telefone", 18},
	{"Email", "email", 28},
	{"Canal", "canal_contato", 16},
	{"Status", "status", 14},
	{"Agendado", "agendado", 10},
	{"Médico", "medico_agendado_id", 24},
	{"Valor Orçado", "valor_orcado", 14},
	{"Orçamento Fechado", "orcamento_fechado", 18},
	{"Valor Fechado Parcial", "valor_fechado_parcial", 20},
	{"Data de Contato", "data_registro_contato", 20},
}

// ExportLeads writes the leads and the dashboard totals to an XLSX
// workbook. Doctor ids are replaced by names when medicos knows them and
// dates are shown in loc.
func ExportLeads(leads, medicos []records.Record, summary Dashboard, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SHEET_LEADS); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create header style")
	}

	names := map[string]string{}
	for _, m := range medicos {
		names[m.ID()] = m.String("nome")
	}

	for i, col := range leadColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SHEET_LEADS, cell, col.Header); err != nil {
			return nil, errors.Wrapf(err, "set header %s", cell)
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SHEET_LEADS, name, name, col.Width); err != nil {
			return nil, errors.Wrap(err, "set column width")
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(leadColumns), 1)
	if err := f.SetCellStyle(SHEET_LEADS, "A1", last, headerStyle); err != nil {
		return nil, errors.Wrap(err, "set header style")
	}

	for r, lead := range leads {
		for c, col := range leadColumns {
			value := cellValue(lead, col.Field, names, loc)
			if value == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(SHEET_LEADS, cell, value); err != nil {
				return nil, errors.Wrapf(err, "set cell %s", cell)
			}
		}
	}

	if _, err := f.NewSheet(SHEET_SUMMARY); err != nil {
		return nil, errors.Wrap(err, "create summary sheet")
	}
	rows := [][]any{
		{"Total de Leads", summary.TotalLeads},
		{"Agendados", summary.Agendados},
		{"Convertidos", summary.Convertidos},
		{"Taxa de Conversão (%)", summary.TaxaConversao},
		{"Valor Total Orçado", summary.ValorTotal},
		{"Valor Convertido", summary.ValorConvertido},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SHEET_SUMMARY, cell, &row); err != nil {
			return nil, errors.Wrap(err, "write summary row")
		}
	}
	if err := f.SetColWidth(SHEET_SUMMARY, "A", "A", 24); err != nil {
		return nil, errors.Wrap(err, "set column width")
	}

	buf := bytes.Buffer{}
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func cellValue(lead records.Record, field string, doctors map[string]string, loc *time.Location) any {
	v, ok := lead[field]
	if !ok || v == nil {
		return nil
	}

	switch field {
	case "agendado":
		if lead.Bool(field) {
			return "Sim"
		}
		return "Não"
	case "medico_agendado_id":
		if name, ok := doctors[lead.String(field)]; ok {
			return name
		}
	case "data_registro_contato":
		if t, ok := utils.ParseDate(lead.String(field)); ok {
			return t.In(loc).Format("02/01/2006 15:04")
		}
	case "valor_orcado", "valor_fechado_parcial":
		if f, ok := records.ToFloat(v); ok {
			return f
		}
	}
	return v
}
