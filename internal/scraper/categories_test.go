package scraper

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCategories(t *testing.T) {
	root := `
	<html><body>
		<ul class="nav">
			<li><a href="/LlistatDeProductes.aspx?idcategoria=10">Fontanería</a></li>
			<li><a href="/LlistatDeProductes.aspx?idcategoria=11">  Electricidad  </a></li>
			<li><a href="/sobre-nosotros.aspx">Sobre nosotros</a></li>
		</ul>
		<div class="menu">
			<a href="/LlistatDeProductes.aspx?idcategoria=10">Fontanería otra vez</a>
			<a href="/LlistatDeProductes.aspx?idcategoria=12">Herramientas</a>
		</div>
	</body></html>`

	service, srv := newTestService(t, siteMux(map[string]string{"/": root}))

	categories := service.ExtractCategories(context.Background())

	require.Len(t, categories, 3)
	assert.Equal(t, "Fontanería", categories[0].Name)
	assert.Equal(t, srv.URL+"/LlistatDeProductes.aspx?idcategoria=10", categories[0].URL)
	assert.Equal(t, "Electricidad", categories[1].Name, "anchor text should be trimmed")
	assert.Equal(t, "Herramientas", categories[2].Name)

	seen := make(map[string]bool)
	for _, c := range categories {
		assert.False(t, seen[c.URL], "duplicate category url %s", c.URL)
		seen[c.URL] = true
	}
}

func TestExtractCategoriesDocumentOrder(t *testing.T) {
	// The .menu block appears before the ul.nav block, so its anchor must come
	// first even though its selector is listed later in the probe table.
	root := `
	<html><body>
		<div class="menu">
			<a href="/LlistatDeProductes.aspx?idcategoria=20">Herramientas</a>
		</div>
		<ul class="nav">
			<li><a href="/LlistatDeProductes.aspx?idcategoria=21">Fontanería</a></li>
		</ul>
	</body></html>`

	service, _ := newTestService(t, siteMux(map[string]string{"/": root}))

	categories := service.ExtractCategories(context.Background())

	require.Len(t, categories, 2)
	assert.Equal(t, "Herramientas", categories[0].Name)
	assert.Equal(t, "Fontanería", categories[1].Name)
}

func TestExtractCategoriesFallsBackToPredefinedList(t *testing.T) {
	root := `<html><body><nav><a href="/contacto.aspx">Contacto</a></nav></body></html>`
	service, _ := newTestService(t, siteMux(map[string]string{"/": root}))

	categories := service.ExtractCategories(context.Background())

	require.Len(t, categories, 4)
	assert.Equal(t, "Instalaciones", categories[0].Name)
	assert.Equal(t, "https://www.lulukabaraka.com/LlistatDeProductes.aspx?idcategoria=109", categories[0].URL)
	assert.Equal(t, "Aislamiento térmico", categories[1].Name)
	assert.Equal(t, "Inst. Agua", categories[2].Name)
	assert.Equal(t, "Inst. Eléctricas", categories[3].Name)
}

func TestExtractCategoriesEmptyOnFetchFailure(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	assert.Empty(t, service.ExtractCategories(context.Background()))
}
