package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ENV                  = "ENV"
	PORT                 = "PORT"
	MONGODB_URI          = "MONGODB_URI"
	MYSQL_URI            = "MYSQL_URI"
	REDIS_URI            = "REDIS_URI"
	AUTH_API_URL         = "AUTH_API_URL"
	LOCAL_CACHE_PATH     = "LOCAL_CACHE_PATH"
	LOG_LEVEL            = "LOG_LEVEL"
	LOG_FORMAT           = "LOG_FORMAT"
	AUDIT_WATCHED_FIELDS = "AUDIT_WATCHED_FIELDS"
	CORS_ORIGINS         = "CORS_ORIGINS"
	ADMIN_USER_IDS       = "ADMIN_USER_IDS"

	ENV_DEVELOPMENT = "development"
	ENV_HOMOLOG     = "homolog"
	ENV_RELEASE     = "production"

	DEFAULT_LOCAL_CACHE_PATH = "data/younv-cache.db"
)

var requiredKeys = []string{ENV, PORT, MONGODB_URI, AUTH_API_URL}

var optionalKeys = []string{MYSQL_URI, REDIS_URI, LOCAL_CACHE_PATH, LOG_LEVEL, LOG_FORMAT, AUDIT_WATCHED_FIELDS, CORS_ORIGINS, ADMIN_USER_IDS}

var allowedEnvValues = []string{ENV_DEVELOPMENT, ENV_HOMOLOG, ENV_RELEASE}

// LoadEnvVariables reads .env from the working directory. Values already
// present in the process environment win over the file, so containers can
// run without one as long as the required keys are exported.
func LoadEnvVariables() {
	workDir, err := os.Getwd()
	if err != nil {
		panic("[ENV] Erro ao obter o diretório de trabalho: " + err.Error())
	}

	LoadEnvFile(filepath.Join(workDir, ".env"))
}

func LoadEnvFile(filePath string) {
	values := map[string]string{}

	if _, err := os.Stat(filePath); err == nil {
		values, err = godotenv.Read(filePath)
		if err != nil {
			panic("[ENV] Erro ao ler o arquivo .env: " + err.Error())
		}
	} else if !os.IsNotExist(err) {
		panic("[ENV] Erro ao abrir o arquivo .env: " + err.Error())
	}

	allowedKeys := slices.Concat(requiredKeys, optionalKeys)

	for key, value := range values {
		if !slices.Contains(allowedKeys, key) {
			panic(fmt.Sprintf("[ENV] Chave '%s' não é permitida. Chaves permitidas: %s",
				key, strings.Join(allowedKeys, ", ")))
		}

		if _, exists := os.LookupEnv(key); exists {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			panic("[ENV] Erro ao definir variável de ambiente " + key + ": " + err.Error())
		}
	}

	if err := ValidateEnv(); err != nil {
		panic(err.Error())
	}
}

// ValidateEnv checks the process environment after loading.
func ValidateEnv() error {
	var missingKeys []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missingKeys = append(missingKeys, key)
		}
	}

	if len(missingKeys) > 0 {
		return fmt.Errorf("[ENV] Variáveis de ambiente obrigatórias ausentes: %s",
			strings.Join(missingKeys, ", "))
	}

	env := os.Getenv(ENV)
	if !slices.Contains(allowedEnvValues, env) {
		return fmt.Errorf("[ENV] Valor inválido para ENV: %s. Valores permitidos: %s",
			env, strings.Join(allowedEnvValues, ", "))
	}

	return nil
}

// GetEnvOr returns the variable or a fallback when it is unset or blank.
func GetEnvOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// GetEnvList splits a comma separated variable, dropping blanks.
func GetEnvList(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
