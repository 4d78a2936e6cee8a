package schemas

type Medico struct {
	ID              string `json:"id,omitempty"`
	ClinicaID       string `json:"clinica_id,omitempty"`
	Nome            string `json:"nome" validate:"required"`
	CRM             string `json:"crm,omitempty"`
	Telefone        string `json:"telefone,omitempty"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	EspecialidadeID string `json:"especialidade_id,omitempty"`
	Ativo           *bool  `json:"ativo,omitempty"`
	DataCadastro    string `json:"data_cadastro,omitempty"`
}

type Especialidade struct {
	ID        string `json:"id,omitempty"`
	ClinicaID string `json:"clinica_id,omitempty"`
	Nome      string `json:"nome" validate:"required"`
	Descricao string `json:"descricao,omitempty"`
	Ativo     *bool  `json:"ativo,omitempty"`
}

type Procedimento struct {
	ID              string   `json:"id,omitempty"`
	ClinicaID       string   `json:"clinica_id,omitempty"`
	Nome            string   `json:"nome" validate:"required"`
	Valor           *float64 `json:"valor,omitempty" validate:"omitempty,gte=0"`
	Duracao         *int     `json:"duracao,omitempty" validate:"omitempty,gte=0"`
	Categoria       string   `json:"categoria,omitempty"`
	EspecialidadeID string   `json:"especialidade_id,omitempty"`
	Ativo           *bool    `json:"ativo,omitempty"`
}

var DefaultEspecialidades = []Especialidade{
	{Nome: "Dermatologia", Descricao: "Cuidados com a pele"},
	{Nome: "Cardiologia", Descricao: "Cuidados cardíacos"},
	{Nome: "Ortopedia", Descricao: "Cuidados ortopédicos"},
	{Nome: "Ginecologia", Descricao: "Saúde da mulher"},
	{Nome: "Pediatria", Descricao: "Cuidados infantis"},
}
