package utils

import (
	"testing"
	"younv/schemas"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecord_Lead(t *testing.T) {
	lead, err := ValidateRecord[schemas.Lead](map[string]any{
		"nome_paciente": "Ana",
		"telefone":      "(11) 99999-0000",
		"status":        "Lead",
		"valor_orcado":  150,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", lead.NomePaciente)
	require.NotNil(t, lead.ValorOrcado)
	assert.Equal(t, 150.0, *lead.ValorOrcado)
}

func TestValidateRecord_ReportsFieldsByJSONName(t *testing.T) {
	_, err := ValidateRecord[schemas.Lead](map[string]any{
		"telefone":          "1234",
		"email":             "not-an-email",
		"status":            "Desconhecido",
		"orcamento_fechado": "Talvez",
		"data_nascimento":   "31/12/1990",
	})

	require.True(t, errors.Is(err, ErrValidationFailed))
	crmErr, ok := AsCRMError(err)
	require.True(t, ok)
	assert.Equal(t, "campo obrigatório", crmErr.Fields["nome_paciente"])
	assert.Contains(t, crmErr.Fields["telefone"], "10 dígitos")
	assert.Equal(t, "e-mail inválido", crmErr.Fields["email"])
	assert.Contains(t, crmErr.Fields, "status")
	assert.Contains(t, crmErr.Fields, "orcamento_fechado")
	assert.Equal(t, "data inválida", crmErr.Fields["data_nascimento"])
}

func TestValidateRecord_WrongType(t *testing.T) {
	_, err := ValidateRecord[schemas.Lead](map[string]any{
		"nome_paciente": "Ana",
		"telefone":      "11999990000",
		"valor_orcado":  "cem reais",
	})

	crmErr, ok := AsCRMError(err)
	require.True(t, ok)
	assert.Equal(t, "tipo inválido", crmErr.Fields["valor_orcado"])
	assert.Equal(t, 422, StatusFor(err))
}

func TestValidateRecord_Clinic(t *testing.T) {
	_, err := ValidateRecord[schemas.Clinic](map[string]any{"nome": "AB", "email": "x@y.com", "telefone": "123"})

	crmErr, ok := AsCRMError(err)
	require.True(t, ok)
	assert.Contains(t, crmErr.Fields, "nome")
	assert.Contains(t, crmErr.Fields, "telefone")
	assert.NotContains(t, crmErr.Fields, "email")
}
