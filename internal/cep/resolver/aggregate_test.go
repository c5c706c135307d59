package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brasilsearch/internal/cep"
)

func TestSynthesize(t *testing.T) {
	code := cep.MustParseCode("01001000")

	tests := []struct {
		name        string
		tally       cep.Tally
		wantTag     string
		wantErr     error
		wantMessage string
	}{
		{
			name:        "unanimous not found",
			tally:       cep.Tally{NotFound: 4, Total: 4},
			wantTag:     cep.TagNotFoundAnywhere,
			wantMessage: "CEP não encontrado em nenhuma base de dados",
		},
		{
			name:        "single provider not found",
			tally:       cep.Tally{NotFound: 1, Total: 1},
			wantTag:     cep.TagNotFoundAnywhere,
			wantMessage: "CEP não encontrado em nenhuma base de dados",
		},
		{
			name:        "network majority",
			tally:       cep.Tally{Network: 3, NotFound: 1, Total: 4},
			wantErr:     cep.ErrConnectivity,
			wantMessage: "Problemas de conectividade detectados. 3 de 4 APIs falharam por problemas de rede. Verifique sua conexão e tente novamente.",
		},
		{
			name:        "network checked before server",
			tally:       cep.Tally{Network: 2, Server: 2, Total: 4},
			wantErr:     cep.ErrConnectivity,
			wantMessage: "Problemas de conectividade detectados. 2 de 4 APIs falharam por problemas de rede. Verifique sua conexão e tente novamente.",
		},
		{
			name:        "server checked before not found majority",
			tally:       cep.Tally{Server: 2, NotFound: 2, Total: 4},
			wantErr:     cep.ErrServiceUnavailable,
			wantMessage: "Serviços de CEP temporariamente indisponíveis. 2 de 4 APIs estão com problemas no servidor. Tente novamente em alguns minutos.",
		},
		{
			name:        "odd total uses half as a fraction",
			tally:       cep.Tally{Network: 1, NotFound: 2, Total: 3},
			wantTag:     cep.TagNotFoundMost,
			wantMessage: "CEP não encontrado na maioria das bases de dados",
		},
		{
			name:        "not found majority",
			tally:       cep.Tally{NotFound: 2, Unknown: 2, Total: 4},
			wantTag:     cep.TagNotFoundMost,
			wantMessage: "CEP não encontrado na maioria das bases de dados",
		},
		{
			name:        "combined infrastructure failures lean to network",
			tally:       cep.Tally{Network: 2, Server: 1, NotFound: 1, Unknown: 1, Total: 5},
			wantErr:     cep.ErrConnectivity,
			wantMessage: "Problemas de conectividade detectados. 2 APIs falharam por problemas de rede, 1 não encontraram o CEP.",
		},
		{
			name:        "combined infrastructure failures tie goes to server",
			tally:       cep.Tally{Network: 1, Server: 1, NotFound: 1, Unknown: 1, Total: 4},
			wantErr:     cep.ErrServiceUnavailable,
			wantMessage: "Serviços temporariamente indisponíveis. 1 APIs com problemas de servidor, 1 não encontraram o CEP.",
		},
		{
			name:        "residual mix",
			tally:       cep.Tally{Network: 1, Unknown: 3, Total: 4},
			wantTag:     cep.TagMixedResults,
			wantMessage: "CEP não encontrado na maioria das bases de dados",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providerErrors := []string{"Brasil API: CEP not found"}
			attempts := []cep.Attempt{{Provider: "Brasil API", Kind: cep.KindNotFound}}

			record, err := synthesize(code, tt.tally, providerErrors, attempts)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, record)
				assert.Equal(t, tt.wantMessage, cep.UserMessage(err))

				var ce *cep.Error
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, tt.tally, ce.Tally)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, code, record.Code)
			assert.Equal(t, []string{tt.wantTag}, record.Errors)
			assert.Equal(t, tt.wantMessage, record.Message)
			assert.Equal(t, providerErrors, record.ProviderErrors)
			assert.Equal(t, attempts, record.Attempts)
			assert.False(t, record.Found())
		})
	}
}
