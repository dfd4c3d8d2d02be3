package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	ProviderAzure  = "azure"
	ProviderGemini = "gemini"

	DefaultAzureDeployment = "gpt-4o-20240806"
	DefaultAzureAPIVersion = "2024-10-21"
	DefaultAzureTokenScope = "https://cognitiveservices.azure.com/.default"
	DefaultGeminiModel     = "gemini-2.5-flash"
)

// Config contém tudo que o processo precisa na inicialização. É criado uma
// única vez e repassado explicitamente.
type Config struct {
	AppName  string
	Provider string

	Azure  AzureConfig
	Gemini GeminiConfig
	Server ServerConfig
	MCP    MCPConfig
	Log    LogConfig
}

type AzureConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	TokenScope string
}

// UsesCredential indica se as requisições autenticam com um bearer token da
// cadeia de credenciais do Azure em vez de uma chave estática.
func (a AzureConfig) UsesCredential() bool {
	return a.APIKey == ""
}

type GeminiConfig struct {
	APIKey   string
	Model    string
	Project  string
	Location string
}

// UsesVertex indica se deve ser usado o backend Vertex AI com as
// credenciais padrão da aplicação.
func (g GeminiConfig) UsesVertex() bool {
	return g.APIKey == "" && g.Project != "" && g.Location != ""
}

type ServerConfig struct {
	Addr               string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	ExposeErrorDetails bool
}

type MCPConfig struct {
	Endpoint string
	Token    string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load lê o arquivo .env opcional e as variáveis de ambiente do processo.
func Load() *Config {
	// .env é opcional no desenvolvimento local
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "travel-supervisor")
	v.SetDefault("LLM_PROVIDER", ProviderAzure)
	v.SetDefault("AZURE_OPENAI_TOKEN_SCOPE", DefaultAzureTokenScope)
	v.SetDefault("GEMINI_MODEL", DefaultGeminiModel)
	v.SetDefault("SERVER_ADDR", ":8000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("EXPOSE_ERROR_DETAILS", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	_ = v.BindEnv("azure_deployment", "AZURE_OPENAI_DEPLOYMENT", "AZURE_OPENAI_DEPLOYMENT_NAME")
	_ = v.BindEnv("azure_api_version", "OPENAI_API_VERSION", "AZURE_OPENAI_API_VERSION")
	_ = v.BindEnv("google_api_key", "GOOGLE_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("google_cloud_location", "GOOGLE_CLOUD_LOCATION", "GOOGLE_CLOUD_REGION")
	v.SetDefault("azure_deployment", DefaultAzureDeployment)
	v.SetDefault("azure_api_version", DefaultAzureAPIVersion)

	return &Config{
		AppName:  v.GetString("APP_NAME"),
		Provider: strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		Azure: AzureConfig{
			Endpoint:   strings.TrimRight(v.GetString("AZURE_OPENAI_ENDPOINT"), "/"),
			APIKey:     v.GetString("AZURE_OPENAI_API_KEY"),
			Deployment: v.GetString("azure_deployment"),
			APIVersion: v.GetString("azure_api_version"),
			TokenScope: v.GetString("AZURE_OPENAI_TOKEN_SCOPE"),
		},
		Gemini: GeminiConfig{
			APIKey:   v.GetString("google_api_key"),
			Model:    v.GetString("GEMINI_MODEL"),
			Project:  v.GetString("GOOGLE_CLOUD_PROJECT"),
			Location: v.GetString("google_cloud_location"),
		},
		Server: ServerConfig{
			Addr:               v.GetString("SERVER_ADDR"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			RequestTimeout:     v.GetDuration("REQUEST_TIMEOUT"),
			ExposeErrorDetails: v.GetBool("EXPOSE_ERROR_DETAILS"),
		},
		MCP: MCPConfig{
			Endpoint: v.GetString("MCP_ENDPOINT"),
			Token:    v.GetString("MCP_TOKEN"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// Validate verifica se o provedor selecionado tem tudo que precisa. Nunca
// acessa a rede.
func (c *Config) Validate() error {
	var missing []string

	switch c.Provider {
	case ProviderAzure:
		if c.Azure.Endpoint == "" {
			missing = append(missing, "AZURE_OPENAI_ENDPOINT")
		}
		if c.Azure.Deployment == "" {
			missing = append(missing, "AZURE_OPENAI_DEPLOYMENT")
		}
		if c.Azure.APIVersion == "" {
			missing = append(missing, "OPENAI_API_VERSION")
		}
		if c.Azure.UsesCredential() && c.Azure.TokenScope == "" {
			missing = append(missing, "AZURE_OPENAI_TOKEN_SCOPE")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" && !c.Gemini.UsesVertex() {
			missing = append(missing, "GOOGLE_API_KEY")
		}
		if c.Gemini.Model == "" {
			missing = append(missing, "GEMINI_MODEL")
		}
	default:
		return &ConfigurationError{Reason: fmt.Sprintf("unsupported LLM_PROVIDER %q", c.Provider)}
	}

	if c.Server.RequestTimeout <= 0 {
		return &ConfigurationError{Reason: "REQUEST_TIMEOUT must be positive"}
	}

	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// ModelName é o deployment ou modelo que será pedido ao provedor.
func (c *Config) ModelName() string {
	if c.Provider == ProviderGemini {
		return c.Gemini.Model
	}
	return c.Azure.Deployment
}

// Diagnostics descreve a configuração do provedor sem expor
// segredos.
func (c *Config) Diagnostics() map[string]any {
	d := map[string]any{
		"provider": c.Provider,
		"model":    c.ModelName(),
	}
	switch c.Provider {
	case ProviderAzure:
		d["endpoint"] = c.Azure.Endpoint
		d["api_version"] = c.Azure.APIVersion
		d["api_key_set"] = c.Azure.APIKey != ""
		d["auth"] = lo.Ternary(c.Azure.UsesCredential(), "azure_credential", "api_key")
	case ProviderGemini:
		d["api_key_set"] = c.Gemini.APIKey != ""
		d["vertex"] = c.Gemini.UsesVertex()
	}
	return d
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}
