package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderBuiltinTemplates(t *testing.T) {
	tm := NewTemplateManager()
	data := TemplateData{
		VendorName: "Ana",
		ShopName:   "Candle Corner",
		MarketName: "Riverside Night Market",
	}

	for _, name := range []string{
		TemplateApplicationCreated,
		TemplateApplicationAccepted,
		TemplateApplicationDeclined,
		TemplateApplicationConfirmed,
		TemplatePaymentUpdated,
		TemplateApplicationUpdated,
	} {
		body, err := tm.Render(name, data)
		require.NoError(t, err, name)
		require.Contains(t, body, "Ana")
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	tm := NewTemplateManager()
	body, err := tm.Render(TemplateApplicationCreated, TemplateData{
		VendorName: "<script>alert(1)</script>",
		ShopName:   "Candle Corner",
		MarketName: "Fair",
	})
	require.NoError(t, err)
	require.NotContains(t, body, "<script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	tm := NewTemplateManager()
	_, err := tm.Render("no_such_template", TemplateData{})
	require.Error(t, err)
}

func TestAddTemplateOverrides(t *testing.T) {
	tm := NewTemplateManager()
	require.NoError(t, tm.AddTemplate(TemplateApplicationCreated, "hello {{.VendorName}}"))

	body, err := tm.Render(TemplateApplicationCreated, TemplateData{VendorName: "Ana"})
	require.NoError(t, err)
	require.Equal(t, "hello Ana", body)

	require.Error(t, tm.AddTemplate("broken", "{{.Unclosed"))
}

func TestRenderDeclinedIncludesReason(t *testing.T) {
	tm := NewTemplateManager()
	body, err := tm.Render(TemplateApplicationDeclined, TemplateData{
		VendorName:      "Ana",
		ShopName:        "Candle Corner",
		MarketName:      "Fair",
		RejectionReason: "no open booths left",
	})
	require.NoError(t, err)
	require.True(t, strings.Contains(body, "no open booths left"))
}
