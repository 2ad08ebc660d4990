//go:build ignore
// +build ignore

// generate_sample seeds a database with template-written blogs for trying
// out the list, read and picker views:
//
//	go run ./scripts/generate_sample.go -db /tmp/genieblog.db -n 50
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	mrand "math/rand"
	"time"

	"github.com/mithrel/genieblog/internal/compose"
	"github.com/mithrel/genieblog/internal/db"
	"github.com/mithrel/genieblog/pkg/api"
)

var subjects = []string{
	"soil microbiomes", "urban heat islands", "coral reef restoration", "battery recycling",
	"sleep and memory", "microplastics in rivers", "remote work productivity", "quantum error correction",
	"bee colony collapse", "language model evaluation", "groundwater depletion", "vertical farming",
}

func main() {
	dsn := flag.String("db", "/tmp/genieblog-sample.db", "sqlite file to seed")
	total := flag.Int("n", 30, "number of blogs")
	flag.Parse()

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))
	ctx := context.Background()

	store, err := db.Open(ctx, "sqlite://"+*dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	base := time.Now().UTC()
	for i := 0; i < *total; i++ {
		topic := fmt.Sprintf("%s %d", subjects[mr.Intn(len(subjects))], i+1)
		gaps := sampleGaps(mr, topic)
		questions, _ := json.Marshal(api.QuestionSet{Data: &api.QuestionData{
			MainQuestion: "What drives " + topic + "?",
			SubQuestions: []string{"Which factors matter most?", "How can they be measured?"},
		}})
		r := compose.Research{Topic: topic, Gaps: gaps, Questions: questions, Methodology: api.EmptyObject}
		// Stagger timestamps backwards to look natural
		created := base.Add(-time.Duration(30*i+mr.Intn(60)) * time.Minute)
		content, err := compose.Basic{Now: func() time.Time { return created }}.Compose(ctx, r)
		if err != nil {
			log.Fatal(err)
		}
		b, err := store.CreateBlog(ctx, api.Blog{
			Topic:             topic,
			Content:           content,
			ResearchGaps:      gaps,
			ResearchQuestions: questions,
			Methodology:       api.EmptyObject,
			CreatedAt:         created,
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%d\t%s\n", b.ID, b.Topic)
	}
}

func sampleGaps(r *mrand.Rand, topic string) json.RawMessage {
	k := 1 + r.Intn(3)
	set := api.GapSet{Gaps: make([]api.Gap, 0, k)}
	for i := 0; i < k; i++ {
		set.Gaps = append(set.Gaps, api.Gap{
			Statement: fmt.Sprintf("Long-term effects of %s remain unmeasured (%d).", topic, i+1),
			Score:     50 + r.Intn(50),
			Reasoning: "existing studies cover less than two seasons",
		})
	}
	raw, _ := json.Marshal(set)
	return raw
}
