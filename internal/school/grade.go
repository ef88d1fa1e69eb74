package school

// Grade scores a set of submitted answers against a quiz's questions and
// returns a percentage in [0,100]. Answers are keyed by question ID and
// compared by exact string match against the correct answer.
func Grade(questions []Question, answers map[string]string) float64 {
	if len(questions) == 0 {
		return 0
	}

	correct := 0
	for _, q := range questions {
		if answers[q.ID] == q.CorrectAnswer {
			correct++
		}
	}
	return float64(correct) / float64(len(questions)) * 100
}
