package orchestrator

import "time"

// Log prefixes
const (
	LogPrefixRun = "internal.assistant.orchestrator.Run"
)

// Configuration defaults
const (
	DefaultMemoryWindow    = 20
	DefaultSessionCapacity = 512
	DefaultSessionTTL      = 30 * time.Minute
	DefaultContextCapacity = 4096
	DefaultAgentCapacity   = 256
	DefaultAgentTTL        = 30 * time.Minute
	DefaultAgentMaxSteps   = 15
	DefaultToolCacheTTL    = 5 * time.Minute

	// eventBufferSize bounds the streaming channel; the dispatcher
	// drains continuously, so the buffer only absorbs short bursts.
	eventBufferSize = 64
)

// System prompt for the general (non-data) conversation path.
const generalSystemPrompt = `Você é um assistente de métricas de qualidade de software.
Esta conversa não envolve consulta de dados: responda de forma breve e cordial, em português.
Se o usuário quiser dados de projetos, casos de teste, execuções ou defeitos, diga que basta perguntar diretamente.`

// User-facing responses. Raw internal errors never reach the user.
const (
	MsgEmptyMessage   = "Sua mensagem está vazia. Envie uma pergunta para começar."
	MsgMissingUser    = "Não foi possível identificar sua sessão. Tente novamente."
	MsgMissingToken   = "Conecte sua conta do provedor de métricas para consultar dados."
	MsgNoProjects     = "Não encontrei projetos na sua conta. Crie um projeto no provedor de métricas para começar."
	MsgListFailed     = "Não consegui listar seus projetos agora. Tente novamente em instantes."
	MsgSelectHeader   = "Você tem mais de um projeto. Qual deles deseja usar?"
	MsgListHeader     = "Você tem %d projeto(s):"
	MsgProjectLine    = "- %s — %s"
	MsgProjectBound   = "Projeto %s selecionado. Pode perguntar sobre os dados dele."
	MsgProjectUnknown = "Não encontrei o projeto %s na sua conta."
)
