package llm

import (
	"google.golang.org/genai"
)

// SystemInstruction configures the tutor persona for every chat request.
const SystemInstruction = `You are Smearn AI, a friendly and expert tutor for Nigerian secondary school students preparing for JAMB and WAEC exams.
Your tone should be encouraging and helpful. Explain concepts clearly and provide step-by-step solutions when needed.
Format your responses using markdown for readability, including code blocks for calculations, bold text for key terms, and lists for steps.
Always be positive and aim to build the student's confidence. If a question is from a specific subject, frame your answer in that context.`

// ExtractionInstruction accompanies the uploaded image.
const ExtractionInstruction = "Extract all the multiple-choice questions from this image. " +
	"Each question should have 4 options and one correct answer. " +
	"Ensure the answer matches one of the options exactly."

// QuestionSchema is the structured-output contract of the extraction call:
// an array of {text, options[4], answer}.
func QuestionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"text": {
					Type:        genai.TypeString,
					Description: "The full text of the question.",
				},
				"options": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					MinItems:    genai.Ptr[int64](4),
					MaxItems:    genai.Ptr[int64](4),
					Description: "An array of 4 strings representing the options.",
				},
				"answer": {
					Type:        genai.TypeString,
					Description: "The correct option string.",
				},
			},
			Required:         []string{"text", "options", "answer"},
			PropertyOrdering: []string{"text", "options", "answer"},
		},
	}
}
