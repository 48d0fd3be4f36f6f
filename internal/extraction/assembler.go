package extraction

// TotalOnlyInvoiceNumber labels the synthetic record emitted when no line
// items could be extracted but a grand total was found.
const TotalOnlyInvoiceNumber = "TOTAL_ONLY"

// Assemble merges the header and normalized line candidates into the final
// record set for one document. When candidates is empty it falls back to a
// single "Total invoice" sentinel built from a grand-total scan; when even
// that fails the document yields zero records and a warning. Assemble never
// returns an error for content failures.
func Assemble(profile *SupplierProfile, header Header, candidates []LineCandidate, doc Document) Result {
	supplier := SupplierUnknown
	if profile != nil {
		supplier = profile.Key
	}

	res := Result{Summary: InvoiceSummary{
		SourceFile:    doc.SourceFile,
		Supplier:      supplier,
		InvoiceNumber: header.InvoiceNumber,
		InvoiceDate:   header.InvoiceDate,
		TotalTTC:      header.TotalTTC,
		VAT:           header.VAT,
	}}

	if len(candidates) == 0 {
		total, ok := findTotal(profile, doc.Text)
		if !ok || total <= 0 {
			res.Warnings = append(res.Warnings,
				newError(ErrNoTotalFound, "no line items and no grand total found in %s", doc.SourceFile).Error())
			return res
		}
		res.Warnings = append(res.Warnings,
			newError(ErrNoLineItemsFound, "no line items extracted from %s, falling back to grand total", doc.SourceFile).Error())
		res.Products = []ProductRecord{{
			Supplier:        supplier,
			InvoiceNumber:   TotalOnlyInvoiceNumber,
			InvoiceDate:     header.InvoiceDate,
			Designation:     "Total invoice - " + supplier,
			Category:        CategoryOther,
			Contenance:      DefaultPackaging.Label,
			Packaging:       DefaultPackaging,
			CanonicalVolume: 1,
			CanonicalUnit:   BasePiece,
			Quantity:        1,
			UnitPriceHT:     round2(total),
			TotalHT:         round2(total),
			SourceFile:      doc.SourceFile,
		}}
		finishSummary(&res)
		return res
	}

	for _, cand := range candidates {
		res.Products = append(res.Products, buildRecord(profile, supplier, header, cand, doc.SourceFile))
	}
	finishSummary(&res)
	return res
}

// buildRecord enriches one candidate into its immutable final form:
// designation cleanup, category, packaging and canonical volume.
func buildRecord(profile *SupplierProfile, supplier string, header Header, cand LineCandidate, sourceFile string) ProductRecord {
	pack := ExtractPackaging(cand.Designation)
	if pack == DefaultPackaging && profile != nil && profile.DefaultPackaging != nil {
		pack = *profile.DefaultPackaging
	}
	volume, baseUnit := pack.CanonicalVolume()

	category := Classify(cand.Designation)
	if profile != nil && profile.ForcedCategory != "" {
		category = profile.ForcedCategory
	}

	return ProductRecord{
		Supplier:         supplier,
		InvoiceNumber:    header.InvoiceNumber,
		InvoiceDate:      header.InvoiceDate,
		Code:             cand.Code,
		Designation:      cand.Designation,
		DesignationClean: DisplayName(cand.Designation),
		Category:         category,
		Contenance:       pack.Label,
		Packaging:        pack,
		Quantity:         cand.Quantity,
		CanonicalVolume:  round2(volume),
		CanonicalUnit:    baseUnit,
		UnitPriceHT:      round2(cand.UnitPrice),
		TotalHT:          round2(cand.Total),
		LowConfidence:    cand.LowConfidence,
		SourceFile:       sourceFile,
	}
}

// finishSummary fills the derived invoice totals. When the header carried no
// grand total the line totals stand in for it.
func finishSummary(res *Result) {
	res.Summary.ProductCount = len(res.Products)

	var lineSum float64
	for _, p := range res.Products {
		lineSum += p.TotalHT
	}

	if res.Summary.TotalTTC > 0 {
		res.Summary.TotalHT = round2(res.Summary.TotalTTC - res.Summary.VAT)
	} else {
		res.Summary.TotalHT = round2(lineSum)
		res.Summary.TotalTTC = round2(lineSum + res.Summary.VAT)
	}
}
