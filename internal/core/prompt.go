package core

import (
	"fmt"
	"strings"
)

// MaxPromptBodyChars caps how much of the email body is sent to the model
const MaxPromptBodyChars = 3000

// PromptTemplate holds the instructions sent to the model for one language
type PromptTemplate struct {
	Language     string
	Format       string // receives subject, sender and body, in that order
	ErrorSummary string
}

var promptTemplates = map[string]PromptTemplate{
	"es": {
		Language:     "es",
		ErrorSummary: "No se pudo analizar el correo. Inténtalo de nuevo.",
		Format: `Actúa como analista de ciberseguridad de NetSereno. Evalúas correos sospechosos recibidos por usuarios en España.

Correo a analizar:
ASUNTO: %s
REMITENTE: %s
CUERPO:
%s

Tareas:
1. Estima la probabilidad de phishing de 0 a 100.
2. Busca urgencia artificial, errores gramaticales propios de malas traducciones al español y suplantación de entidades conocidas (Correos, Agencia Tributaria, bancos, Bizum).
3. Comprueba si el remitente es coherente con el contenido.

Responde ÚNICAMENTE con un objeto JSON válido, sin texto adicional ni bloques de código, con esta estructura:
{"score": entero de 0 a 100, "verdict": "SEGURO" | "SOSPECHOSO" | "PELIGROSO", "summary": "resumen breve en español para el usuario", "reasons": ["motivo", "motivo", "motivo"]}`,
	},
	"en": {
		Language:     "en",
		ErrorSummary: "The email could not be analyzed. Please try again.",
		Format: `You are a NetSereno cybersecurity analyst reviewing suspicious emails reported by users.

Email to analyze:
SUBJECT: %s
SENDER: %s
BODY:
%s

Tasks:
1. Estimate the phishing probability from 0 to 100.
2. Look for artificial urgency, grammar mistakes typical of machine translation, and impersonation of well-known brands, banks, couriers or tax agencies.
3. Check whether the sender is consistent with the content.

Reply ONLY with one valid JSON object, no extra text and no code fences, shaped as:
{"score": integer 0-100, "verdict": "SAFE" | "SUSPICIOUS" | "DANGEROUS", "summary": "short explanation for the user", "reasons": ["reason", "reason", "reason"]}`,
	},
}

// LookupPromptTemplate returns the template for a language code
func LookupPromptTemplate(language string) (PromptTemplate, error) {
	tpl, ok := promptTemplates[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return PromptTemplate{}, fmt.Errorf("unsupported assessment language: %q", language)
	}
	return tpl, nil
}

// Render fills the template. The body must already be truncated.
func (t PromptTemplate) Render(subject, sender, body string) string {
	return fmt.Sprintf(t.Format, subject, sender, body)
}
