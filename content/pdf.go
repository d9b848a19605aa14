package content

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInfo describes a rendered PDF document.
type PDFInfo struct {
	PageCount int
	// HasImages is true when any page carries image streams; such
	// documents usually lost content in the print rendering.
	HasImages bool
}

// InspectPDF validates PDF bytes and reports their structure. Use it
// to check the output of a page print before persisting it.
func InspectPDF(data []byte) (*PDFInfo, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("content: read pdf: %w", err)
	}

	info := &PDFInfo{PageCount: ctx.PageCount}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
			info.HasImages = true
			break
		}
	}
	return info, nil
}
