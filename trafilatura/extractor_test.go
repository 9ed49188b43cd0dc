package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/websearch"
	"github.com/fwojciec/websearch/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements websearch.Extractor at compile time.
var _ websearch.Extractor = (*trafilatura.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Previsão do tempo para a semana</title>
<meta property="og:title" content="Previsão do tempo para a semana">
</head>
<body>
<nav><a href="/">Home</a><a href="/noticias">Notícias</a></nav>
<article>
<h1>Previsão do tempo</h1>
<p>A semana começa com sol em boa parte do país, mas uma frente fria
avança pelo litoral sul trazendo chuva forte a partir de quarta-feira.
As temperaturas devem cair em todas as capitais da região.</p>
<p>No sudeste, o tempo permanece seco até sexta-feira, com madrugadas
frias e tardes quentes.</p>
</article>
<aside>Publicidade</aside>
<footer>Copyright 2025</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "frente fria")
	})

	t.Run("removes boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Teste</title></head>
<body>
<nav><a href="/">Home</a><a href="/mapa">Mapa do site</a></nav>
<main>
<p>Este é o conteúdo principal da página, com texto suficiente para que a
extração o reconheça como relevante e o preserve integralmente no resultado.</p>
</main>
<footer>Rodapé com links institucionais</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "conteúdo principal")
		assert.NotContains(t, result.ContentHTML, "Mapa do site")
	})

	t.Run("empty input is EINVALID", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("")

		assert.Equal(t, websearch.EINVALID, websearch.ErrorCode(err))
	})
}
