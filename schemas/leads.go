package schemas

import (
	"regexp"
	"time"
)

const (
	LEAD_STATUS_LEAD        = "Lead"
	LEAD_STATUS_AGENDADO    = "Agendado"
	LEAD_STATUS_CONVERTIDO  = "Convertido"
	LEAD_STATUS_PERDIDO     = "Perdido"
	LEAD_STATUS_NAO_AGENDOU = "Não Agendou"
	LEAD_STATUS_CONFIRMADO  = "Confirmado"
	LEAD_STATUS_FALTOU      = "Faltou"

	ORCAMENTO_TOTAL   = "Total"
	ORCAMENTO_PARCIAL = "Parcial"
	ORCAMENTO_NAO     = "Não"

	TIPO_VISITA_PRIMEIRA   = "Primeira Visita"
	TIPO_VISITA_RECORRENTE = "Recorrente"

	MIN_PHONE_DIGITS = 10
)

// Lead is the typed view of a lead record. Pointer fields distinguish an
// absent field from a zero value; MaterializeLead fills the absent ones.
type Lead struct {
	ID                           string   `json:"id,omitempty"`
	ClinicaID                    string   `json:"clinica_id,omitempty"`
	NomePaciente                 string   `json:"nome_paciente" validate:"required,min=2"`
	Telefone                     string   `json:"telefone" validate:"required,phone"`
	DataNascimento               string   `json:"data_nascimento,omitempty" validate:"omitempty,isodate"`
	Email                        string   `json:"email,omitempty" validate:"omitempty,email"`
	CanalContato                 string   `json:"canal_contato,omitempty"`
	SolicitacaoPaciente          string   `json:"solicitacao_paciente,omitempty"`
	MedicoAgendadoID             string   `json:"medico_agendado_id,omitempty"`
	EspecialidadeID              string   `json:"especialidade_id,omitempty"`
	ProcedimentoAgendadoID       string   `json:"procedimento_agendado_id,omitempty"`
	Agendado                     *bool    `json:"agendado,omitempty"`
	MotivoNaoAgendamento         string   `json:"motivo_nao_agendamento,omitempty"`
	OutrosProfissionaisAgendados *bool    `json:"outros_profissionais_agendados,omitempty"`
	QuaisProfissionais           string   `json:"quais_profissionais,omitempty"`
	PagouReserva                 *bool    `json:"pagou_reserva,omitempty"`
	TipoVisita                   string   `json:"tipo_visita,omitempty" validate:"omitempty,oneof='Primeira Visita' Recorrente"`
	ValorOrcado                  *float64 `json:"valor_orcado,omitempty" validate:"omitempty,gte=0"`
	OrcamentoFechado             string   `json:"orcamento_fechado,omitempty" validate:"omitempty,oneof=Total Parcial Não"`
	ValorFechadoParcial          *float64 `json:"valor_fechado_parcial,omitempty" validate:"omitempty,gte=0"`
	Followup1Realizado           *bool    `json:"followup1_realizado,omitempty"`
	Followup1Data                *string  `json:"followup1_data,omitempty"`
	Followup2Realizado           *bool    `json:"followup2_realizado,omitempty"`
	Followup2Data                *string  `json:"followup2_data,omitempty"`
	Followup3Realizado           *bool    `json:"followup3_realizado,omitempty"`
	Followup3Data                *string  `json:"followup3_data,omitempty"`
	ObservacaoGeral              string   `json:"observacao_geral,omitempty"`
	PerfilComportamentalDisc     string   `json:"perfil_comportamental_disc,omitempty"`
	Status                       string   `json:"status,omitempty" validate:"omitempty,oneof=Lead Agendado Convertido Perdido 'Não Agendou' Confirmado Faltou"`
	DataRegistroContato          string   `json:"data_registro_contato,omitempty"`
	Tags                         []string `json:"tags,omitempty"`
}

var LeadStatuses = []string{
	LEAD_STATUS_LEAD,
	LEAD_STATUS_AGENDADO,
	LEAD_STATUS_CONVERTIDO,
	LEAD_STATUS_PERDIDO,
	LEAD_STATUS_NAO_AGENDOU,
	LEAD_STATUS_CONFIRMADO,
	LEAD_STATUS_FALTOU,
}

// LeadMigrationFields are the fields added by later schema versions. A lead
// lacking any of them is rewritten by the field migration.
var LeadMigrationFields = []string{
	"valor_fechado_parcial",
	"followup1_realizado",
	"followup1_data",
	"followup2_realizado",
	"followup2_data",
	"followup3_realizado",
	"followup3_data",
	"tags",
}

type fieldDefault struct {
	Field string
	Value func(now time.Time) any
}

func constant(v any) func(time.Time) any { return func(time.Time) any { return v } }

var leadDefaults = []fieldDefault{
	{"nome_paciente", constant("")},
	{"telefone", constant("")},
	{"data_nascimento", constant("")},
	{"email", constant("")},
	{"canal_contato", constant("")},
	{"solicitacao_paciente", constant("")},
	{"medico_agendado_id", constant("")},
	{"especialidade_id", constant("")},
	{"procedimento_agendado_id", constant("")},
	{"agendado", constant(false)},
	{"motivo_nao_agendamento", constant("")},
	{"outros_profissionais_agendados", constant(false)},
	{"quais_profissionais", constant("")},
	{"pagou_reserva", constant(false)},
	{"tipo_visita", constant("")},
	{"valor_orcado", constant(0.0)},
	{"orcamento_fechado", constant("")},
	{"valor_fechado_parcial", constant(0.0)},
	{"followup1_realizado", constant(false)},
	{"followup1_data", constant("")},
	{"followup2_realizado", constant(false)},
	{"followup2_data", constant("")},
	{"followup3_realizado", constant(false)},
	{"followup3_data", constant("")},
	{"observacao_geral", constant("")},
	{"perfil_comportamental_disc", constant("")},
	{"status", constant(LEAD_STATUS_LEAD)},
	{"data_registro_contato", func(now time.Time) any { return now.UTC().Format("2006-01-02T15:04:05.000Z") }},
}

// MaterializeLead fills every absent lead field with its default, keeping the
// values already present, and enforces the partial-budget invariant. It
// returns the names of the fields it added.
func MaterializeLead(rec map[string]any, now time.Time) []string {
	added := []string{}
	for _, d := range leadDefaults {
		if _, ok := rec[d.Field]; !ok {
			rec[d.Field] = d.Value(now)
			added = append(added, d.Field)
		}
	}
	if _, ok := rec["tags"]; !ok {
		rec["tags"] = []any{}
		added = append(added, "tags")
	}
	EnforcePartialBudget(rec)
	return added
}

// EnforcePartialBudget zeroes valor_fechado_parcial unless the budget was
// closed partially. It only touches records that mention either field.
func EnforcePartialBudget(rec map[string]any) {
	_, hasStatus := rec["orcamento_fechado"]
	_, hasValue := rec["valor_fechado_parcial"]
	if !hasStatus && !hasValue {
		return
	}
	if status, _ := rec["orcamento_fechado"].(string); status != ORCAMENTO_PARCIAL {
		rec["valor_fechado_parcial"] = 0.0
	}
}

// MissingFields lists which of fields are absent from rec. A present key with
// a falsy value does not count as missing.
func MissingFields(rec map[string]any, fields []string) []string {
	missing := []string{}
	for _, f := range fields {
		if _, ok := rec[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone keeps only the digits of a phone number.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}
