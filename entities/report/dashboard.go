package report

import (
	"fmt"
	"math"
	"sort"
	"time"
	"younv/records"
	"younv/schemas"
	"younv/utils"
)

const (
	RECENT_LEADS_LIMIT  = 5
	UPCOMING_LIMIT      = 5
	MONTHS_IN_DASHBOARD = 6
	UNKNOWN_CHANNEL     = "Não informado"
	UNKNOWN_DOCTOR      = "N/A"
)

type Count struct {
	Label      string `json:"label"`
	Quantidade int    `json:"quantidade"`
}

type DoctorStats struct {
	MedicoID      string  `json:"medico_id"`
	Nome          string  `json:"nome"`
	Total         int     `json:"total"`
	Convertidos   int     `json:"convertidos"`
	TaxaConversao float64 `json:"taxa_conversao"`
}

type Dashboard struct {
	TotalLeads           int              `json:"total_leads"`
	Agendados            int              `json:"agendados"`
	Convertidos          int              `json:"convertidos"`
	TaxaConversao        float64          `json:"taxa_conversao"`
	TaxaAgendamento      float64          `json:"taxa_agendamento"`
	ValorTotal           float64          `json:"valor_total"`
	ValorConvertido      float64          `json:"valor_convertido"`
	TaxaValorConvertido  float64          `json:"taxa_valor_convertido"`
	LeadsHoje            int              `json:"leads_hoje"`
	LeadsOntem           int              `json:"leads_ontem"`
	DiferencaHojeOntem   int              `json:"diferenca_hoje_ontem"`
	LeadsRecentes        []records.Record `json:"leads_recentes"`
	ProximosAgendamentos []records.Record `json:"proximos_agendamentos"`
	PorCanal             []Count          `json:"por_canal"`
	PorStatus            []Count          `json:"por_status"`
	PorMedico            []DoctorStats    `json:"por_medico"`
	PorMes               []Count          `json:"por_mes"`
}

// ConversionRate is part/total as a percentage rounded to one decimal. An
// empty total gives 0.
func ConversionRate(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(part/total*1000) / 10
}

// BuildDashboard aggregates the clinic's leads. Calendar days and months are
// taken in loc.
func BuildDashboard(leads, medicos []records.Record, now time.Time, loc *time.Location) Dashboard {
	d := Dashboard{TotalLeads: len(leads)}

	today := utils.StartOfDay(now.In(loc))
	yesterday := today.AddDate(0, 0, -1)

	canais := map[string]int{}
	status := map[string]int{}
	meses := map[string]int{}
	for _, lead := range leads {
		valor := lead.Float("valor_orcado")
		d.ValorTotal += valor

		if lead.Bool("agendado") {
			d.Agendados++
		}
		if lead.String("status") == schemas.LEAD_STATUS_CONVERTIDO {
			d.Convertidos++
			d.ValorConvertido += valor
		}

		canal := lead.String("canal_contato")
		if canal == "" {
			canal = UNKNOWN_CHANNEL
		}
		canais[canal]++
		if s := lead.String("status"); s != "" {
			status[s]++
		}

		contact, ok := utils.ParseDate(lead.String("data_registro_contato"))
		if !ok {
			continue
		}
		switch day := utils.StartOfDay(contact.In(loc)); {
		case day.Equal(today):
			d.LeadsHoje++
		case day.Equal(yesterday):
			d.LeadsOntem++
		}
		meses[contact.In(loc).Format("2006-01")]++
	}

	d.TaxaConversao = ConversionRate(float64(d.Convertidos), float64(d.TotalLeads))
	d.TaxaAgendamento = ConversionRate(float64(d.Agendados), float64(d.TotalLeads))
	d.TaxaValorConvertido = ConversionRate(d.ValorConvertido, d.ValorTotal)
	d.DiferencaHojeOntem = d.LeadsHoje - d.LeadsOntem

	d.LeadsRecentes = recentLeads(leads, RECENT_LEADS_LIMIT)
	d.ProximosAgendamentos = upcoming(leads, UPCOMING_LIMIT)
	d.PorCanal = sortedCounts(canais)
	d.PorStatus = sortedCounts(status)
	d.PorMedico = byDoctor(leads, medicos)
	d.PorMes = lastMonths(meses, today, MONTHS_IN_DASHBOARD)

	return d
}

func recentLeads(leads []records.Record, limit int) []records.Record {
	sorted := append([]records.Record(nil), leads...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := utils.ParseDate(sorted[i].String("data_registro_contato"))
		b, _ := utils.ParseDate(sorted[j].String("data_registro_contato"))
		return a.After(b)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func upcoming(leads []records.Record, limit int) []records.Record {
	out := []records.Record{}
	for _, lead := range leads {
		if lead.Bool("agendado") && lead.String("status") != schemas.LEAD_STATUS_CONVERTIDO {
			out = append(out, lead)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// sortedCounts orders by quantity, then label, so the output is stable.
func sortedCounts(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for label, n := range counts {
		out = append(out, Count{Label: label, Quantidade: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantidade != out[j].Quantidade {
			return out[i].Quantidade > out[j].Quantidade
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func byDoctor(leads, medicos []records.Record) []DoctorStats {
	out := make([]DoctorStats, 0, len(medicos))
	for _, medico := range medicos {
		stats := DoctorStats{MedicoID: medico.ID(), Nome: medico.String("nome")}
		if stats.Nome == "" {
			stats.Nome = UNKNOWN_DOCTOR
		}
		for _, lead := range leads {
			if lead.String("medico_agendado_id") != medico.ID() {
				continue
			}
			stats.Total++
			if lead.String("status") == schemas.LEAD_STATUS_CONVERTIDO {
				stats.Convertidos++
			}
		}
		stats.TaxaConversao = ConversionRate(float64(stats.Convertidos), float64(stats.Total))
		out = append(out, stats)
	}
	return out
}

// lastMonths returns one bucket per calendar month ending at the month of
// today, oldest first, labelled MM/YYYY. Months without leads count zero.
func lastMonths(counts map[string]int, today time.Time, n int) []Count {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	out := make([]Count, 0, n)
	for i := n - 1; i >= 0; i-- {
		month := first.AddDate(0, -i, 0)
		out = append(out, Count{
			Label:      fmt.Sprintf("%02d/%d", int(month.Month()), month.Year()),
			Quantidade: counts[month.Format("2006-01")],
		})
	}
	return out
}
