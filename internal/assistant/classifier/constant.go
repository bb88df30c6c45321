package classifier

// Log prefixes
const (
	LogPrefixClassify = "internal.assistant.classifier.Classify"
)

// Classification prompt
const (
	PromptSystem = `Você é um roteador de intenções para um assistente de métricas de QA.
Analise a mensagem do usuário e determine a intenção.

Mensagem atual: "%s"
Projeto atualmente selecionado: %s

Intenções possíveis:
1. query_data: perguntas sobre métricas, casos de teste, execuções, defeitos, estatísticas, gráficos
2. list_projects: pedir a lista de projetos disponíveis
3. select_project: escolher ou trocar o projeto de trabalho
4. general: saudações, perguntas sobre funcionalidades, conversa comum

Se a mensagem mencionar explicitamente um código de projeto (sigla curta em maiúsculas, ex: "DEMO", "WEB"), extraia-o em project_code.

Retorne APENAS JSON no formato:
{
  "intent": "query_data|list_projects|select_project|general",
  "needs_project": true/false,
  "project_code": "CODIGO ou null"
}`

	PromptNoProject = "nenhum"
)

// Classifier tuning
const (
	ClassifierTemperature = 0.1
	ClassifierMaxTokens   = 256
)

// Log messages
const (
	LogMsgLLMCallFailed   = "LLM call failed, falling back to general"
	LogMsgEmptyResponse   = "empty LLM response, falling back to general"
	LogMsgJSONParseFailed = "failed to parse classification JSON, falling back to general"
	LogMsgUnknownIntent   = "unknown intent %q, falling back to general"
)
