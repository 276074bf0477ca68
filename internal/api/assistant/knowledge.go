package assistant

// Alert contexts a client may attach to a question after a detection.
const (
	ContextPlagiarismFlagged = "plagiarism_flagged"
	ContextAIFlagged         = "ai_flagged"
	ContextVisualAlert       = "visual_alert"
	ContextAudioAlert        = "audio_alert"
)

type Answer struct {
	Text   string
	Module string
}

var ContextAnswers = map[string]Answer{
	ContextPlagiarismFlagged: {
		Text:   "Part of your text looks similar to existing sources. Remember to paraphrase properly and to cite your sources. The citation module can help you.",
		Module: "module_citation_guide",
	},
	ContextAIFlagged: {
		Text:   "Your text shows characteristics of AI generated content. Make sure your work is fully original and reflects your own thinking. The 'Originality and AI' module can help you.",
		Module: "module_originality_ai",
	},
	ContextVisualAlert: {
		Text:   "Unusual behavior was detected during your exam. Stay focused on your screen and do not consult outside sources. The 'Exam Integrity' module may be useful.",
		Module: "module_exam_integrity",
	},
	ContextAudioAlert: {
		Text:   "Unexpected voice activity was detected. Please make sure you are alone and that your surroundings stay quiet during the exam. The 'Exam Environment' module will guide you.",
		Module: "module_exam_environment",
	},
}

type KnowledgeEntry struct {
	Keywords []string
	Answer   Answer
}

// Knowledge is scanned in order and the first entry with a matching keyword
// answers. Keywords are matched case and accent insensitively.
var Knowledge = []KnowledgeEntry{
	{
		Keywords: []string{"plagiat", "plagiarism", "définition", "definition", "c'est quoi", "what is"},
		Answer: Answer{
			Text:   "Plagiarism is using someone else's ideas or words without giving them proper credit. It is a serious academic offence.",
			Module: "module_plagiat_bases",
		},
	},
	{
		Keywords: []string{"citer", "cite", "citation", "référence", "reference", "bibliographie", "bibliography"},
		Answer: Answer{
			Text:   "To cite correctly, name the source of every piece of information that is not yours. Use a citation style (APA, MLA, Chicago) and include a bibliography.",
			Module: "module_citation_guide",
		},
	},
	{
		Keywords: []string{"paraphraser", "paraphrase", "reformuler", "rephrase"},
		Answer: Answer{
			Text:   "Paraphrasing means rewriting someone else's ideas in your own words while keeping the original meaning and citing the source. Changing a few words is not enough.",
			Module: "module_paraphrase_tips",
		},
	},
	{
		Keywords: []string{"tricher", "cheat", "examen", "exam", "fraude", "fraud"},
		Answer: Answer{
			Text:   "Cheating in exams includes using unauthorized notes, copying, or getting outside help. It undermines the fairness of the assessment.",
			Module: "module_exam_integrity",
		},
	},
	{
		Keywords: []string{"stress", "anxiété", "anxiety", "peur", "afraid"},
		Answer: Answer{
			Text:   "Exam stress is normal. Focus on your preparation and breathe deeply. If you need help, talk to your teachers or to the university support services.",
			Module: "module_stress_management",
		},
	},
	{
		Keywords: []string{"aide", "help", "question", "comprendre", "understand"},
		Answer: Answer{
			Text: "I am here to help you understand the principles of academic integrity. Ask me a specific question!",
		},
	},
}

const FallbackAnswer = "I am not sure I understand your question. Could you rephrase it or ask something more specific about academic integrity?"
