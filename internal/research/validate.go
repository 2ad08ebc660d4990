package research

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/genieblog/pkg/api"
)

// ValidateQuestions checks a question set before it is sent for analysis.
func ValidateQuestions(q api.QuestionData) error {
	if strings.TrimSpace(q.MainQuestion) == "" {
		return errors.New("main_question cannot be empty")
	}
	if len(q.SubQuestions) == 0 {
		return errors.New("sub_questions cannot be empty")
	}
	for i, s := range q.SubQuestions {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("sub_questions[%d] cannot be empty", i)
		}
	}
	return nil
}
