package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sampleSheet = "Produktname;Wirkstoff;Pflegestoff;Auslobung;Kategorie;Kategorie;Tierart;Tierart\n" +
	";;;;Feuchtigkeit;Reinigung;Kuh;Ziege\n" +
	"Euter Balsam;Jod;Lanolin;Pflegt;x;;x;\n" +
	"Zitzen Dip;Chlorhexidin;Glycerin;Desinfiziert;;;;x\n" +
	"Melkfett Plus;Milchsäure;Aloe Vera;Reinigt und pflegt;x;x;x;x\n"

func writeLatin1(t *testing.T, content string) string {
	t.Helper()
	data, err := charmap.ISO8859_1.NewEncoder().String(content)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "E-B.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func loadSample(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Load(writeLatin1(t, sampleSheet), LoadOptions{})
	require.NoError(t, err)
	return cat
}

func names(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name.String()
	}
	return out
}
