// Package eval measures extraction quality against ground-truth fixtures:
// real invoice text layouts paired with the product lines a human read off
// them. It exists to catch regressions when supplier profiles or the strategy
// cascade change.
package eval

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/bistro-urbain/invoice-analyzer/internal/extraction"
)

// GroundTruth is the expected output for one fixture invoice.
type GroundTruth struct {
	Supplier      string    `json:"supplier"`
	InvoiceNumber string    `json:"invoice_number"`
	InvoiceDate   string    `json:"invoice_date"`
	TotalHT       float64   `json:"total_ht"`
	Products      []Product `json:"products"`
}

// Product is one expected product line.
type Product struct {
	Code        string  `json:"code,omitempty"`
	Designation string  `json:"designation"`
	Category    string  `json:"category"`
	Quantity    float64 `json:"quantity"`
	TotalHT     float64 `json:"total_ht"`
}

// CountMetrics measures line detection performance.
type CountMetrics struct {
	Expected  int
	Extracted int
	Matched   int
	Precision float64
	Recall    float64
	F1        float64
}

// EvalResult holds the metrics from running the engine on one fixture.
type EvalResult struct {
	Fixture string

	Lines            CountMetrics
	AmountAccuracy   float64
	QuantityAccuracy float64
	CategoryAccuracy float64
	DesignationSim   float64

	SupplierOK      bool
	InvoiceNumberOK bool
	InvoiceDateOK   bool
	TotalOK         bool

	OverallScore float64
}

// recordPair is a matched extracted/expected product line.
type recordPair struct {
	got  extraction.ProductRecord
	want Product
}

// ComputeMetrics compares one engine result against its ground truth.
func ComputeMetrics(fixture string, result extraction.Result, truth *GroundTruth) *EvalResult {
	r := &EvalResult{Fixture: fixture}

	matched := matchProducts(result.Products, truth.Products)
	r.Lines = CountMetrics{
		Expected:  len(truth.Products),
		Extracted: len(result.Products),
		Matched:   len(matched),
	}
	if r.Lines.Extracted > 0 {
		r.Lines.Precision = float64(r.Lines.Matched) / float64(r.Lines.Extracted)
	}
	if r.Lines.Expected > 0 {
		r.Lines.Recall = float64(r.Lines.Matched) / float64(r.Lines.Expected)
	}
	if p, rec := r.Lines.Precision, r.Lines.Recall; p+rec > 0 {
		r.Lines.F1 = 2 * p * rec / (p + rec)
	}

	if len(matched) > 0 {
		var amountOK, qtyOK, catOK int
		var simSum float64
		for _, pair := range matched {
			if amountMatch(pair.got.TotalHT, pair.want.TotalHT) {
				amountOK++
			}
			if pair.got.Quantity == pair.want.Quantity {
				qtyOK++
			}
			if strings.EqualFold(pair.got.Category, pair.want.Category) {
				catOK++
			}
			simSum += similarity(pair.got.Designation, pair.want.Designation)
		}
		n := float64(len(matched))
		r.AmountAccuracy = float64(amountOK) / n
		r.QuantityAccuracy = float64(qtyOK) / n
		r.CategoryAccuracy = float64(catOK) / n
		r.DesignationSim = simSum / n
	}

	r.SupplierOK = result.Summary.Supplier == truth.Supplier
	r.InvoiceNumberOK = result.Summary.InvoiceNumber == truth.InvoiceNumber
	r.InvoiceDateOK = truth.InvoiceDate == "" || result.Summary.InvoiceDate == truth.InvoiceDate
	r.TotalOK = amountMatch(result.Summary.TotalHT, truth.TotalHT)

	r.OverallScore = 0.35*r.Lines.F1 +
		0.20*r.AmountAccuracy +
		0.10*r.QuantityAccuracy +
		0.10*r.CategoryAccuracy +
		0.10*r.DesignationSim +
		0.15*headerScore(r)

	return r
}

func headerScore(r *EvalResult) float64 {
	score := 0.0
	for _, ok := range []bool{r.SupplierOK, r.InvoiceNumberOK, r.InvoiceDateOK, r.TotalOK} {
		if ok {
			score += 0.25
		}
	}
	return score
}

// matchProducts pairs extracted records with expected lines. Product codes
// match directly; codeless lines fall back to amount tolerance plus
// designation similarity.
func matchProducts(got []extraction.ProductRecord, want []Product) []recordPair {
	used := make([]bool, len(want))
	var matched []recordPair

	for _, g := range got {
		bestIdx := -1
		bestScore := -1.0
		for j, w := range want {
			if used[j] {
				continue
			}
			var score float64
			switch {
			case g.Code != "" && w.Code != "":
				if g.Code != w.Code {
					continue
				}
				score = 3.0
			case amountMatch(g.TotalHT, w.TotalHT):
				score = 1.0 + similarity(g.Designation, w.Designation)
			default:
				continue
			}
			if score > bestScore {
				bestScore = score
				bestIdx = j
			}
		}
		if bestIdx >= 0 {
			used[bestIdx] = true
			matched = append(matched, recordPair{got: g, want: want[bestIdx]})
		}
	}
	return matched
}

// amountMatch tolerates 0.10 absolute or 1% relative difference.
func amountMatch(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= 0.10 {
		return true
	}
	return b != 0 && diff/math.Abs(b) < 0.01
}

// similarity is a 0-1 score from normalized Levenshtein distance over the
// lower-cased strings.
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}

	lenA := utf8.RuneCountInString(a)
	lenB := utf8.RuneCountInString(b)
	if lenA == 0 && lenB == 0 {
		return 1.0
	}

	return 1.0 - float64(levenshtein(a, b))/float64(max(lenA, lenB))
}

func levenshtein(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)
	la, lb := len(runesA), len(runesB)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if runesA[i-1] == runesB[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev = curr
	}
	return prev[lb]
}

// RunEval processes every fixture through the engine and scores the results.
func RunEval(engine *extraction.Engine, fixtures []*Fixture) []*EvalResult {
	var results []*EvalResult
	for _, f := range fixtures {
		res := engine.Process(extraction.Document{
			SourceFile: f.Name + ".pdf",
			Text:       f.Text,
		})
		results = append(results, ComputeMetrics(f.Name, res, f.GroundTruth))
	}
	return results
}

// PrintSummary writes a comparison table for all fixture runs.
func PrintSummary(w io.Writer, results []*EvalResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "Fixture\tF1\tAmt%\tQty%\tCat%\tDesc~\tHeader\tScore\tMatch")
	fmt.Fprintln(tw, "-------\t--\t----\t----\t----\t-----\t------\t-----\t-----")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%.2f\t%.0f%%\t%.0f%%\t%.0f%%\t%.2f\t%.0f%%\t%.2f\t%d/%d\n",
			r.Fixture,
			r.Lines.F1,
			r.AmountAccuracy*100,
			r.QuantityAccuracy*100,
			r.CategoryAccuracy*100,
			r.DesignationSim,
			headerScore(r)*100,
			r.OverallScore,
			r.Lines.Matched,
			r.Lines.Expected,
		)
	}
	tw.Flush()

	var sum float64
	for _, r := range results {
		sum += r.OverallScore
	}
	if len(results) > 0 {
		fmt.Fprintf(w, "\nAverage score: %.3f over %d fixtures\n", sum/float64(len(results)), len(results))
	}
}
