package audit

import "slices"

// Policy tells the composer which fields of a collection are recorded in
// history and how to label them.
type Policy struct {
	EntityLabel   string
	NameField     string
	WatchedFields []string
	SetFields     []string
	DisplayNames  map[string]string
}

var leadDisplayNames = map[string]string{
	"nome_paciente":            "Nome do Paciente",
	"telefone":                 "Telefone",
	"email":                    "E-mail",
	"status":                   "Status",
	"canal_contato":            "Canal de Contato",
	"medico_agendado_id":       "Médico",
	"especialidade_id":         "Especialidade",
	"procedimento_agendado_id": "Procedimento",
	"valor_orcado":             "Valor Orçado",
	"orcamento_fechado":        "Orçamento Fechado",
	"valor_fechado_parcial":    "Valor Parcial",
	"tags":                     "Tags",
	"observacao_geral":         "Observações",
	"tipo_visita":              "Tipo de Visita",
	"agendado":                 "Agendamento",
	"pagou_reserva":            "Pagamento de Reserva",
	"data_nascimento":          "Data de Nascimento",
	"solicitacao_paciente":     "Solicitação do Paciente",
}

var leadWatchedFields = []string{
	"nome_paciente",
	"telefone",
	"email",
	"status",
	"canal_contato",
	"medico_agendado_id",
	"especialidade_id",
	"procedimento_agendado_id",
	"valor_orcado",
	"orcamento_fechado",
	"valor_fechado_parcial",
	"tags",
	"observacao_geral",
	"tipo_visita",
	"agendado",
	"pagou_reserva",
	"data_nascimento",
	"solicitacao_paciente",
}

func DefaultLeadPolicy() Policy {
	return Policy{
		EntityLabel:   "Lead",
		NameField:     "nome_paciente",
		WatchedFields: slices.Clone(leadWatchedFields),
		SetFields:     []string{"tags"},
		DisplayNames:  leadDisplayNames,
	}
}

// WithWatchedFields replaces the watch-list. An empty list keeps the current one.
func (p Policy) WithWatchedFields(fields []string) Policy {
	if len(fields) > 0 {
		p.WatchedFields = slices.Clone(fields)
	}
	return p
}

func (p Policy) Watches(field string) bool {
	return slices.Contains(p.WatchedFields, field)
}

func (p Policy) isSet(field string) bool {
	return slices.Contains(p.SetFields, field)
}

func (p Policy) DisplayName(field string) string {
	if name, ok := p.DisplayNames[field]; ok {
		return name
	}
	return field
}

// bookkeeping fields never count as user changes.
var bookkeeping = []string{
	"id", "clinica_id", "created_at", "created_by", "modified_at", "modified_by",
	"updated_at", "audit_trail",
}
