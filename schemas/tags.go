package schemas

type Tag struct {
	ID          string `json:"id,omitempty"`
	ClinicaID   string `json:"clinica_id,omitempty"`
	Nome        string `json:"nome" validate:"required"`
	Cor         string `json:"cor,omitempty" validate:"omitempty,hexcolor"`
	Categoria   string `json:"categoria,omitempty"`
	DataCriacao string `json:"data_criacao,omitempty"`
	Ativo       *bool  `json:"ativo,omitempty"`
}

var DefaultTags = []Tag{
	{Nome: "Flacidez", Cor: "#ef4444", Categoria: "Procedimento"},
	{Nome: "Ginecologia", Cor: "#ec4899", Categoria: "Especialidade"},
	{Nome: "Botox", Cor: "#8b5cf6", Categoria: "Procedimento"},
	{Nome: "Preenchimento", Cor: "#06b6d4", Categoria: "Procedimento"},
	{Nome: "Harmonização", Cor: "#10b981", Categoria: "Procedimento"},
	{Nome: "Urgente", Cor: "#f59e0b", Categoria: "Prioridade"},
	{Nome: "VIP", Cor: "#10b981", Categoria: "Tipo Cliente"},
	{Nome: "Primeira Visita", Cor: "#3b82f6", Categoria: "Tipo Cliente"},
	{Nome: "Recorrente", Cor: "#6366f1", Categoria: "Tipo Cliente"},
	{Nome: "Follow-up", Cor: "#f97316", Categoria: "Prioridade"},
}
