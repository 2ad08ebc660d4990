package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Basic builds a plain narrative post from the research payloads alone.
// It never fails.
type Basic struct {
	Now func() time.Time
}

type basicGap struct {
	Statement *string `json:"statement"`
	Reasoning *string `json:"reasoning"`
}

type basicGaps struct {
	Gaps *[]basicGap `json:"gaps"`
}

type basicQuestions struct {
	Data *struct {
		MainQuestion *string  `json:"main_question"`
		SubQuestions []string `json:"sub_questions"`
	} `json:"data"`
}

type basicMethodology struct {
	Data *struct {
		Methodology json.RawMessage `json:"methodology"`
	} `json:"data"`
}

type methodologyDetail struct {
	Recommended   *string `json:"recommended_methodology"`
	Justification string  `json:"justification"`
	StudyDesign   string  `json:"study_design"`
}

// detail returns nil when the methodology is missing, null or an object
// without any keys.
func (m basicMethodology) detail() *methodologyDetail {
	var keys map[string]json.RawMessage
	if json.Unmarshal(m.Data.Methodology, &keys) != nil || len(keys) == 0 {
		return nil
	}
	var d methodologyDetail
	if json.Unmarshal(m.Data.Methodology, &d) != nil {
		return nil
	}
	return &d
}

func (b Basic) Compose(_ context.Context, r Research) (string, error) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	topic := r.Topic
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Research Blog: %s\n\n", cases.Title(language.Und).String(topic))
	fmt.Fprintf(&sb, "*Generated on %s*\n\n", now().Format("January 02, 2006"))

	sb.WriteString("## Introduction\n\n")
	fmt.Fprintf(&sb, "This blog explores the current state of research in %s, identifying key gaps and proposing research directions. ", topic)
	sb.WriteString("Through a comprehensive analysis of the research landscape, we examine critical areas requiring further investigation ")
	sb.WriteString("and outline a methodological framework for advancing knowledge in this domain.\n\n")

	var gaps basicGaps
	if decode(r.Gaps, &gaps) && gaps.Gaps != nil {
		sb.WriteString("## Research Gaps Identified\n\n")
		fmt.Fprintf(&sb, "The current research landscape in %s reveals several critical gaps that warrant attention. ", topic)
		for i, g := range *gaps.Gaps {
			statement := orNA(g.Statement)
			if i > 0 {
				statement = strings.ToLower(statement)
			}
			reasoning := orNA(g.Reasoning)
			if strings.HasSuffix(reasoning, ".") {
				reasoning = strings.ToLower(reasoning)
			}
			fmt.Fprintf(&sb, "Notably, %s ", statement)
			fmt.Fprintf(&sb, "This gap is significant because %s. ", reasoning)
		}
		sb.WriteString("These identified gaps collectively point to the need for more comprehensive research approaches in this field.\n\n")
	}

	var qs basicQuestions
	if decode(r.Questions, &qs) && qs.Data != nil {
		sb.WriteString("## Research Questions\n\n")
		fmt.Fprintf(&sb, "To address these research gaps, our investigation centers on the following inquiry: %s ", orNA(qs.Data.MainQuestion))
		sb.WriteString("This overarching question encompasses several important dimensions. ")
		if subs := qs.Data.SubQuestions; len(subs) > 0 {
			sb.WriteString("Specifically, we seek to understand ")
			for i, sq := range subs {
				sq = lowerIfCapitalised(sq)
				switch {
				case i == 0:
					sb.WriteString(sq)
				case i == len(subs)-1:
					sb.WriteString(", and " + sq)
				default:
					sb.WriteString(", " + sq)
				}
			}
			sb.WriteString(". These interconnected questions form the foundation of our research framework and guide our methodological approach.\n\n")
		}
	}

	var m basicMethodology
	if decode(r.Methodology, &m) && m.Data != nil {
		sb.WriteString("## Research Methodology\n\n")
		if mi := m.detail(); mi != nil {
			rec := "comprehensive research approach"
			if mi.Recommended != nil {
				rec = *mi.Recommended
			}
			fmt.Fprintf(&sb, "Our research employs a %s to address the identified questions and gaps. ", rec)
			if mi.Justification != "" {
				sb.WriteString(mi.Justification + " ")
			}
			if mi.StudyDesign != "" {
				sb.WriteString(mi.StudyDesign + " ")
			}
			sb.WriteString("This methodological framework ensures rigor and validity in our investigation.\n\n")
		} else {
			sb.WriteString("A comprehensive research methodology will be employed to address the identified questions and gaps.\n\n")
		}
	}

	sb.WriteString("## Conclusion\n\n")
	fmt.Fprintf(&sb, "This research framework provides a comprehensive approach to advancing knowledge in %s. ", topic)
	sb.WriteString("By addressing the identified gaps through well-defined research questions and a robust methodology, ")
	sb.WriteString("this work aims to contribute meaningfully to the field and open new avenues for future investigation.\n")
	return sb.String(), nil
}

func decode(raw json.RawMessage, v any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func orNA(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}

func lowerIfCapitalised(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return strings.ToLower(s)
	}
	return s
}
