package agent

import "time"

// Log prefixes
const (
	LogPrefixChat = "internal.assistant.agent.Chat"
)

// System prompt
const (
	SystemPromptTemplate = `Você é um assistente de métricas de qualidade de software.
Você responde perguntas sobre projetos, casos de teste, execuções de teste e defeitos usando as ferramentas disponíveis.

Regras:
- Use as ferramentas para buscar dados reais; nunca invente números.
- Perguntas analíticas podem exigir várias chamadas encadeadas (listar, buscar, agregar, gerar gráfico).
- Se uma ferramenta falhar, explique o que não foi possível obter e responda com os dados que conseguiu.
- Responda em português, de forma objetiva.
%s`

	SystemPromptProjectScope = "Projeto atual: %s. Use este código de projeto nas ferramentas, a menos que o usuário peça outro."
	SystemPromptAllProjects  = "Nenhum projeto fixo está selecionado; pergunte ou use list_projects quando precisar de um código."
)

// Configuration
const (
	// Multi-step analytical questions may require list → fetch →
	// aggregate → chart chains, so the iteration cap is generous.
	MaxAgentSteps = 15

	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1024

	DefaultCacheCapacity = 256
	DefaultCacheTTL      = 30 * time.Minute
)

// User-facing messages; raw provider errors never reach the user.
const (
	MsgMaxStepsExceeded = "A análise ficou longa demais e foi interrompida. Tente dividir a pergunta em partes menores."
	MsgParseFallback    = "Não consegui montar uma resposta completa desta vez. Pode reformular a pergunta?"

	MsgAuthError    = "Sua conexão com o provedor de métricas expirou. Reconecte sua conta para continuar."
	MsgRateLimited  = "O provedor de métricas está limitando as requisições. Tente novamente em instantes."
	MsgTimeout      = "A solicitação demorou mais do que o esperado e foi interrompida. Tente novamente."
	MsgGenericError = "Desculpe, ocorreu um erro ao processar sua solicitação. Tente novamente."
)

// Error payload key returned to the model when a tool fails.
const toolErrorKey = "error"
