package records

// FieldMap is a bidirectional field-name table for one entity. Names absent
// from the table pass through unchanged in both directions.
type FieldMap struct {
	toExternal map[string]string
	toInternal map[string]string
	aliases    map[string]string
}

func NewFieldMap(internalToExternal map[string]string) *FieldMap {
	m := &FieldMap{
		toExternal: make(map[string]string, len(internalToExternal)),
		toInternal: make(map[string]string, len(internalToExternal)),
		aliases:    map[string]string{},
	}
	for internal, external := range internalToExternal {
		m.toExternal[internal] = external
		m.toInternal[external] = internal
	}
	return m
}

// WithAliases registers legacy external names that are only read. An alias
// is used when the canonical field is absent from the document.
func (m *FieldMap) WithAliases(externalToInternal map[string]string) *FieldMap {
	for external, internal := range externalToInternal {
		m.aliases[external] = internal
	}
	return m
}

// Extend returns a new map holding m's pairs plus extra.
func (m *FieldMap) Extend(extra map[string]string) *FieldMap {
	pairs := make(map[string]string, len(m.toExternal)+len(extra))
	for k, v := range m.toExternal {
		pairs[k] = v
	}
	for k, v := range extra {
		pairs[k] = v
	}
	out := NewFieldMap(pairs)
	return out.WithAliases(m.aliases)
}

func (m *FieldMap) External(field string) string {
	if external, ok := m.toExternal[field]; ok {
		return external
	}
	return field
}

func (m *FieldMap) Internal(field string) string {
	if internal, ok := m.toInternal[field]; ok {
		return internal
	}
	return field
}

// ToExternal renames the keys of rec to storage names. Mapped names win
// over a pass-through key of the same name.
func (m *FieldMap) ToExternal(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		if _, mapped := m.toExternal[k]; !mapped {
			out[k] = v
		}
	}
	for k, v := range rec {
		if external, mapped := m.toExternal[k]; mapped {
			out[external] = v
		}
	}
	return out
}

// ToInternal renames the keys of doc to domain names. Canonical external
// names win over legacy aliases and over already-internal keys.
func (m *FieldMap) ToInternal(doc Record) Record {
	out := make(Record, len(doc))
	for k, v := range doc {
		_, mapped := m.toInternal[k]
		_, alias := m.aliases[k]
		if !mapped && !alias {
			out[k] = v
		}
	}
	for k, v := range doc {
		if internal, mapped := m.toInternal[k]; mapped {
			out[internal] = v
		}
	}
	for k, v := range doc {
		if internal, alias := m.aliases[k]; alias {
			if _, present := out[internal]; !present {
				out[internal] = v
			}
		}
	}
	return out
}

// FieldMaps is the registry of tables keyed by collection name.
type FieldMaps struct {
	byCollection map[string]*FieldMap
	fallback     *FieldMap
}

func NewFieldMaps(fallback *FieldMap) *FieldMaps {
	return &FieldMaps{byCollection: map[string]*FieldMap{}, fallback: fallback}
}

func (f *FieldMaps) Register(collection string, m *FieldMap) *FieldMaps {
	f.byCollection[collection] = m
	return f
}

func (f *FieldMaps) For(collection string) *FieldMap {
	if m, ok := f.byCollection[collection]; ok {
		return m
	}
	return f.fallback
}

var commonFields = map[string]string{
	"clinica_id":  "clinicaId",
	"created_at":  "createdAt",
	"updated_at":  "updatedAt",
	"created_by":  "createdBy",
	"modified_at": "modifiedAt",
	"modified_by": "modifiedBy",
	"audit_trail": "auditTrail",
	"migrated_at": "migratedAt",
}

var leadFields = map[string]string{
	"nome_paciente":                  "nomePaciente",
	"data_nascimento":                "dataNascimento",
	"canal_contato":                  "canalContato",
	"solicitacao_paciente":           "solicitacaoPaciente",
	"medico_agendado_id":             "medicoAgendadoId",
	"especialidade_id":               "especialidadeId",
	"procedimento_agendado_id":       "procedimentoAgendadoId",
	"motivo_nao_agendamento":         "motivoNaoAgendamento",
	"outros_profissionais_agendados": "outrosProfissionaisAgendados",
	"quais_profissionais":            "quaisProfissionais",
	"pagou_reserva":                  "pagouReserva",
	"tipo_visita":                    "tipoVisita",
	"valor_orcado":                   "valorOrcado",
	"orcamento_fechado":              "orcamentoFechado",
	"valor_fechado_parcial":          "valorFechadoParcial",
	"followup1_realizado":            "followup1Realizado",
	"followup1_data":                 "followup1Data",
	"followup2_realizado":            "followup2Realizado",
	"followup2_data":                 "followup2Data",
	"followup3_realizado":            "followup3Realizado",
	"followup3_data":                 "followup3Data",
	"observacao_geral":               "observacaoGeral",
	"perfil_comportamental_disc":     "perfilComportamentalDisc",
	"data_registro_contato":          "dataRegistroContato",
}

// DefaultFieldMaps returns the tables for every collection of the CRM.
func DefaultFieldMaps() *FieldMaps {
	common := NewFieldMap(commonFields)

	leads := common.Extend(leadFields).WithAliases(map[string]string{
		"nomePackiente": "nome_paciente",
	})
	tags := common.Extend(map[string]string{"data_criacao": "dataCriacao"})
	clinics := common.Extend(map[string]string{"razao_social": "razaoSocial"})
	userClinics := common.Extend(map[string]string{"user_id": "userId"})

	return NewFieldMaps(common).
		Register("leads", leads).
		Register("tags", tags).
		Register("clinicas", clinics).
		Register("usuarios_clinicas", userClinics)
}
