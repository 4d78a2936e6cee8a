package schemas

const (
	CLINIC_PLAN_BASIC = "basic"
)

type Clinic struct {
	ID            string               `json:"id,omitempty"`
	Nome          string               `json:"nome" validate:"required,min=3"`
	RazaoSocial   string               `json:"razao_social,omitempty"`
	CNPJ          string               `json:"cnpj,omitempty"`
	Email         string               `json:"email" validate:"required,email"`
	Telefone      string               `json:"telefone" validate:"required,min=10"`
	Endereco      *ClinicAddress       `json:"endereco,omitempty"`
	Contato       *ClinicContact       `json:"contato,omitempty"`
	Configuracoes *ClinicConfiguration `json:"configuracoes,omitempty"`
	Plano         string               `json:"plano,omitempty"`
	Ativo         *bool                `json:"ativo,omitempty"`
}

type ClinicAddress struct {
	Rua    string `json:"rua,omitempty"`
	Bairro string `json:"bairro,omitempty"`
	Cidade string `json:"cidade,omitempty"`
	Estado string `json:"estado,omitempty"`
	CEP    string `json:"cep,omitempty"`
}

type ClinicContact struct {
	Telefone string `json:"telefone,omitempty"`
	Email    string `json:"email,omitempty"`
	Whatsapp string `json:"whatsapp,omitempty"`
}

type ClinicConfiguration struct {
	Timezone string `json:"timezone,omitempty"`
	Moeda    string `json:"moeda,omitempty"`
	Idioma   string `json:"idioma,omitempty"`
}

// UserClinic associates a signed-in user with the clinic they work for.
type UserClinic struct {
	UserID    string `json:"user_id"`
	ClinicaID string `json:"clinica_id"`
	Ativo     bool   `json:"ativo"`
}

func DefaultClinic() Clinic {
	ativo := true
	return Clinic{
		Nome:        "Clínica Padrão",
		RazaoSocial: "Clínica Padrão Ltda",
		CNPJ:        "00.000.000/0001-00",
		Email:       "contato@clinicapadrao.com",
		Telefone:    "(11) 0000-0000",
		Endereco: &ClinicAddress{
			Rua:    "Endereço não informado",
			Bairro: "Centro",
			Cidade: "São Paulo",
			Estado: "SP",
			CEP:    "00000-000",
		},
		Contato: &ClinicContact{
			Telefone: "(11) 0000-0000",
			Email:    "contato@clinicapadrao.com",
			Whatsapp: "(11) 90000-0000",
		},
		Configuracoes: &ClinicConfiguration{
			Timezone: "America/Sao_Paulo",
			Moeda:    "BRL",
			Idioma:   "pt-BR",
		},
		Plano: CLINIC_PLAN_BASIC,
		Ativo: &ativo,
	}
}
