package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Turn representa uma troca anterior enviada de volta pelo cliente
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ChatMessage representa a requisição para o endpoint de chat
type ChatMessage struct {
	Message string `json:"message" validate:"required,notblank"`
	History []Turn `json:"history" validate:"omitempty,dive"`
}

// ChatResponse representa a resposta do endpoint de chat
type ChatResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
}

// ErrorResponse é o corpo de toda resposta não-2xx do /chat
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Message é uma entrada da conversa, marcada com o papel, entregue ao
// orquestrador.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildMessages achata o histórico em mensagens alternadas de usuário e
// assistente, da mais antiga para a mais nova, e acrescenta a nova mensagem
// do usuário. Cada turno gera exatamente duas mensagens, mesmo com uma metade vazia.
func BuildMessages(req ChatMessage) []Message {
	msgs := make([]Message, 0, 2*len(req.History)+1)
	for _, turn := range req.History {
		msgs = append(msgs,
			Message{Role: RoleUser, Content: turn.User},
			Message{Role: RoleAssistant, Content: turn.Assistant},
		)
	}
	return append(msgs, Message{Role: RoleUser, Content: req.Message})
}
