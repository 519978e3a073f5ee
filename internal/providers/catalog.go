package providers

// Provider names as exposed by the API
const (
	OpenAI       = "openai"
	Anthropic    = "anthropic"
	Groq         = "groq"
	Gemini       = "gemini"
	Ollama       = "ollama"
	Local        = "local"
	CustomOpenAI = "custom_openai"
)

var openAIChatModels = ModelSet{
	"gpt-3.5-turbo": {DisplayName: "GPT-3.5 Turbo"},
	"gpt-4":         {DisplayName: "GPT-4"},
	"gpt-4-turbo":   {DisplayName: "GPT-4 turbo"},
	"gpt-4o":        {DisplayName: "GPT-4 omni"},
	"gpt-4o-mini":   {DisplayName: "GPT-4 omni mini"},
}

var openAIEmbeddingModels = ModelSet{
	"text-embedding-3-small": {DisplayName: "Text Embedding 3 Small"},
	"text-embedding-3-large": {DisplayName: "Text Embedding 3 Large"},
}

var anthropicChatModels = ModelSet{
	"claude-3-5-sonnet-20241022": {DisplayName: "Claude 3.5 Sonnet"},
	"claude-3-5-haiku-20241022":  {DisplayName: "Claude 3.5 Haiku"},
	"claude-3-opus-20240229":     {DisplayName: "Claude 3 Opus"},
	"claude-3-sonnet-20240229":   {DisplayName: "Claude 3 Sonnet"},
	"claude-3-haiku-20240307":    {DisplayName: "Claude 3 Haiku"},
}

var groqChatModels = ModelSet{
	"llama-3.3-70b-versatile": {DisplayName: "Llama 3.3 70B"},
	"llama-3.1-8b-instant":    {DisplayName: "Llama 3.1 8B"},
	"mixtral-8x7b-32768":      {DisplayName: "Mixtral 8x7B"},
	"gemma2-9b-it":            {DisplayName: "Gemma2 9B"},
}

var geminiChatModels = ModelSet{
	"gemini-1.5-flash":     {DisplayName: "Gemini 1.5 Flash"},
	"gemini-1.5-flash-8b":  {DisplayName: "Gemini 1.5 Flash 8B"},
	"gemini-1.5-pro":       {DisplayName: "Gemini 1.5 Pro"},
	"gemini-2.0-flash-exp": {DisplayName: "Gemini 2.0 Flash Exp"},
}

var geminiEmbeddingModels = ModelSet{
	"text-embedding-004": {DisplayName: "Text Embedding"},
	"embedding-001":      {DisplayName: "Embedding 001"},
}

// Served by the in-process transformers runtime, so always available
var localEmbeddingModels = ModelSet{
	"xenova-bge-small-en-v1.5":              {DisplayName: "BGE Small"},
	"xenova-gte-small":                      {DisplayName: "GTE Small"},
	"xenova-bert-base-multilingual-uncased": {DisplayName: "Bert Multilingual"},
}
