package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// Write renders the report as a styled docx: titles first, then the
// trend keywords used, then the full transcript.
func (w *implWriter) Write(ctx context.Context, rep Report) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	base := strings.TrimSuffix(rep.VideoFilename, filepath.Ext(rep.VideoFilename))
	addStyledRun(doc.AddParagraph(""), "Title Report: "+base, true, 16)
	addStyledRun(doc.AddParagraph(""),
		fmt.Sprintf("Platform: %s | Generated: %s", rep.Platform, time.Now().Format("2006-01-02 15:04")),
		false, fontSize)
	doc.AddParagraph("")

	addStyledRun(doc.AddParagraph(""), "Suggested Titles", true, 15)
	for i, title := range rep.Titles {
		p := doc.AddParagraph("")
		addStyledRun(p, fmt.Sprintf("%d. %s", i+1, title.Title), true, fontSize)
		if title.Reasoning != "" {
			detail := doc.AddParagraph("")
			addStyledRun(detail, fmt.Sprintf("   [%s] %s", title.Style, title.Reasoning), false, fontSize)
		}
	}
	doc.AddParagraph("")

	if len(rep.Keywords) > 0 {
		addStyledRun(doc.AddParagraph(""), "Trending Keywords Used", true, 15)
		addStyledRun(doc.AddParagraph(""), strings.Join(rep.Keywords, ", "), false, fontSize)
		doc.AddParagraph("")
	}

	addStyledRun(doc.AddParagraph(""), "Transcript", true, 15)
	meta := fmt.Sprintf("Language: %s | Words: %d | Chunks: %d",
		rep.Transcript.Language, rep.Transcript.WordCount, rep.Transcript.ChunkCount)
	if rep.Transcript.LowConfidence {
		meta += " | Low confidence"
	}
	addStyledRun(doc.AddParagraph(""), meta, false, fontSize)
	doc.AddParagraph("")
	addStyledRun(doc.AddParagraph(""), rep.Transcript.Text, false, fontSize)

	outPath := filepath.Join(w.dir, base+"_titles.docx")
	if err := doc.SaveTo(outPath); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	w.logger.Info(ctx, "Report written: %s", outPath)
	return outPath, nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
