package storage

import "smearn/internal/models"

// SeedCatalog returns the built-in past questions, flashcards, videos and
// textbooks. Question ids stay far below millisecond timestamps so imported
// questions always sort after them.
func SeedCatalog() models.Catalog {
	q := func(id int64, text string, answer string, options ...string) models.Question {
		return models.Question{ID: id, Text: text, Options: options, Answer: answer}
	}
	f := func(question, answer string) models.Flashcard {
		return models.Flashcard{Question: question, Answer: answer}
	}

	cat := models.Catalog{
		Questions: map[models.Subject][]models.Question{
			models.SubjectMathematics: {
				q(1, "Solve for x: 2x + 5 = 15", "5", "5", "10", "7.5", "2"),
				q(2, "What is the value of sin 30°?", "1/2", "1", "1/2", "√3/2", "0"),
				q(3, "Simplify 3^2 × 3^3.", "243", "81", "243", "729", "27"),
			},
			models.SubjectEnglish: {
				q(101, "Choose the word nearest in meaning to 'benevolent'.", "Kind", "Cruel", "Kind", "Lazy", "Proud"),
				q(102, "Choose the correct option: Neither the teacher nor the students ___ present.", "were", "was", "were", "is", "be"),
			},
			models.SubjectPhysics: {
				q(201, "What is the SI unit of force?", "Newton", "Joule", "Newton", "Watt", "Pascal"),
				q(202, "Which of these is a vector quantity?", "Velocity", "Speed", "Mass", "Velocity", "Time"),
			},
			models.SubjectChemistry: {
				q(301, "What is the chemical symbol for sodium?", "Na", "S", "So", "Na", "Sd"),
				q(302, "Which gas is produced when zinc reacts with dilute hydrochloric acid?", "Hydrogen", "Oxygen", "Hydrogen", "Chlorine", "Nitrogen"),
			},
			models.SubjectBiology: {
				q(401, "Which organelle is the site of respiration in a cell?", "Mitochondrion", "Nucleus", "Ribosome", "Mitochondrion", "Vacuole"),
				q(402, "The functional unit of the kidney is the", "Nephron", "Neuron", "Nephron", "Alveolus", "Villus"),
			},
			models.SubjectLiteratureInEnglish: {
				q(501, "A story in which characters and events stand for abstract ideas is a/an", "Allegory", "Allegory", "Elegy", "Ode", "Satire"),
				q(502, "A fourteen-line poem is called a", "Sonnet", "Ballad", "Sonnet", "Limerick", "Epic"),
			},
			models.SubjectGovernment: {
				q(601, "Nigeria became a republic in", "1963", "1960", "1963", "1966", "1979"),
				q(602, "The arm of government that interprets the law is the", "Judiciary", "Executive", "Legislature", "Judiciary", "Civil service"),
			},
			models.SubjectCRS: {
				q(701, "Who led the Israelites out of Egypt?", "Moses", "Abraham", "Joshua", "Moses", "David"),
				q(702, "Jesus was baptised in the River", "Jordan", "Nile", "Jordan", "Euphrates", "Tigris"),
			},
			models.SubjectEconomics: {
				q(801, "Opportunity cost is best described as the", "Alternative forgone", "Money cost", "Alternative forgone", "Real cost of production", "Total cost"),
				q(802, "When demand rises and supply is unchanged, price will", "Rise", "Fall", "Rise", "Remain constant", "Become zero"),
			},
		},
		Flashcards: map[models.Subject][]models.Flashcard{
			models.SubjectMathematics: {
				f("What is the formula for the area of a circle?", "πr²"),
				f("What is the sum of angles in a triangle?", "180°"),
				f("State Pythagoras' theorem.", "a² + b² = c²"),
			},
			models.SubjectEnglish: {
				f("What is a synonym?", "A word with the same or nearly the same meaning as another."),
				f("What is an antonym?", "A word opposite in meaning to another."),
			},
			models.SubjectPhysics: {
				f("State Newton's first law.", "A body stays at rest or in uniform motion unless acted on by an external force."),
				f("What is the unit of power?", "Watt (W)"),
			},
			models.SubjectChemistry: {
				f("What is the atomic number of carbon?", "6"),
				f("What is the pH of a neutral solution?", "7"),
			},
			models.SubjectBiology: {
				f("What is photosynthesis?", "The process by which green plants make food from carbon dioxide and water using sunlight."),
				f("What carries oxygen in the blood?", "Haemoglobin in red blood cells"),
			},
			models.SubjectLiteratureInEnglish: {
				f("What is a metaphor?", "A direct comparison without 'like' or 'as'."),
				f("Who wrote 'Things Fall Apart'?", "Chinua Achebe"),
			},
			models.SubjectGovernment: {
				f("What is democracy?", "Government of the people, by the people, for the people."),
				f("What is separation of powers?", "Division of government functions among the legislature, executive and judiciary."),
			},
			models.SubjectCRS: {
				f("Who was the first king of Israel?", "Saul"),
				f("How many disciples did Jesus choose?", "Twelve"),
			},
			models.SubjectEconomics: {
				f("What is scarcity?", "Limited resources relative to unlimited wants."),
				f("What is inflation?", "A persistent rise in the general price level."),
			},
		},
		Videos:    map[models.Subject][]models.TutorialVideo{},
		Textbooks: map[models.Subject][]models.Textbook{},
	}

	videos := []models.TutorialVideo{
		{ID: "NybHckSEQBI", Title: "Solving Linear Equations", Description: "Step-by-step methods for one-variable equations.", Subject: models.SubjectMathematics},
		{ID: "PUB0TaZ7bhA", Title: "Trigonometric Ratios", Description: "Sine, cosine and tangent for WAEC candidates.", Subject: models.SubjectMathematics},
		{ID: "ymAv2iI3Rqc", Title: "Concord in English", Description: "Subject-verb agreement made simple.", Subject: models.SubjectEnglish},
		{ID: "kKKM8Y-u7ds", Title: "Newton's Laws of Motion", Description: "The three laws with worked examples.", Subject: models.SubjectPhysics},
		{ID: "FSyAehMdpyI", Title: "The Periodic Table", Description: "Groups, periods and trends.", Subject: models.SubjectChemistry},
		{ID: "URUJD5NEXC8", Title: "Cell Structure", Description: "Organelles and their functions.", Subject: models.SubjectBiology},
		{ID: "eGn9FhA3Mm8", Title: "Figures of Speech", Description: "Metaphor, simile and more.", Subject: models.SubjectLiteratureInEnglish},
		{ID: "tl2Hv5v8xrE", Title: "Arms of Government", Description: "Legislature, executive and judiciary.", Subject: models.SubjectGovernment},
		{ID: "dQ1CUl8wR7o", Title: "The Exodus", Description: "Moses and the journey out of Egypt.", Subject: models.SubjectCRS},
		{ID: "g9aDizJpd_s", Title: "Demand and Supply", Description: "How prices are determined in a market.", Subject: models.SubjectEconomics},
	}
	for _, v := range videos {
		cat.Videos[v.Subject] = append(cat.Videos[v.Subject], v)
	}

	var id int64
	for _, s := range models.Subjects {
		id++
		cat.Textbooks[s] = append(cat.Textbooks[s], models.Textbook{
			ID:          id,
			Title:       "Essential " + string(s) + " for SSCE & UTME",
			Subject:     s,
			Description: "Complete coverage of the WAEC and JAMB syllabus with past questions.",
			CoverURL:    "https://placehold.co/200x280?text=" + s.Slug(),
			DownloadURL: "https://example.com/textbooks/" + s.Slug() + ".pdf",
			IsPremium:   false,
		})
		id++
		cat.Textbooks[s] = append(cat.Textbooks[s], models.Textbook{
			ID:          id,
			Title:       "Advanced " + string(s) + " Workbook",
			Subject:     s,
			Description: "Exam-focused drills and model answers.",
			CoverURL:    "https://placehold.co/200x280?text=" + s.Slug() + "-workbook",
			DownloadURL: "https://example.com/textbooks/" + s.Slug() + "-workbook.pdf",
			IsPremium:   true,
		})
	}

	return cat
}
