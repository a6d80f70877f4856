package builders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdf "github.com/patrick-ryan/pdfalcon"
	"github.com/patrick-ryan/pdfalcon/document"
)

func TestAddTextAndShapes(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	b := document.NewBuilder(doc, document.Letter)
	page := b.AddPage()

	require.NoError(t, AddText(page, "Helvetica", 12, 72, 720, "Hello, pdfalcon"))
	AddEllipse(page, 300, 400, 50, 25)
	AddImageXObject(page, "Im1", 0, 0, 100, 100)

	ref, err := page.Close()
	require.NoError(t, err)

	val, err := doc.Get(ref)
	require.NoError(t, err)
	dict := val.(pdf.Dict)
	assert.Equal(t, pdf.Name("Page"), dict["Type"])
	assert.NotNil(t, dict["Contents"], "page missing /Contents")
}

func TestValidateRejectsBadPageSize(t *testing.T) {
	err := Validate(PageOptions{Width: 0, Height: 792})
	assert.Error(t, err, "expected an error for zero Width")
}

func TestValidateRejectsUnknownRotation(t *testing.T) {
	err := Validate(PageOptions{Width: 612, Height: 792, Rotation: 45})
	assert.Error(t, err, "expected an error for a non-multiple-of-90 rotation")
}

func TestValidateAcceptsWellFormedOptions(t *testing.T) {
	assert.NoError(t, Validate(PageOptions{Width: 612, Height: 792, Rotation: 90}))
	assert.NoError(t, Validate(FontOptions{BaseFont: "Helvetica"}))
}
