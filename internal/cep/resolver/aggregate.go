package resolver

import (
	"fmt"

	"brasilsearch/internal/cep"
)

const (
	msgNotFoundAnywhere = "CEP não encontrado em nenhuma base de dados"
	msgNotFoundMost     = "CEP não encontrado na maioria das bases de dados"

	msgConnectivity = "Problemas de conectividade detectados. %d de %d APIs falharam por problemas de rede. Verifique sua conexão e tente novamente."
	msgUnavailable  = "Serviços de CEP temporariamente indisponíveis. %d de %d APIs estão com problemas no servidor. Tente novamente em alguns minutos."

	msgMixedConnectivity = "Problemas de conectividade detectados. %d APIs falharam por problemas de rede, %d não encontraram o CEP."
	msgMixedUnavailable  = "Serviços temporariamente indisponíveis. %d APIs com problemas de servidor, %d não encontraram o CEP."
)

// synthesize turns a run where every provider failed into the final
// outcome. The order of the checks is significant: unanimous not-found
// wins over everything, then network and server majorities, then a
// not-found majority, then the combined infrastructure count.
func synthesize(code cep.Code, t cep.Tally, providerErrors []string, attempts []cep.Attempt) (*cep.Record, error) {
	half := float64(t.Total) / 2
	atLeastHalf := func(n int) bool { return float64(n) >= half }

	switch {
	case t.NotFound == t.Total:
		return cep.NewNotFoundRecord(code, cep.TagNotFoundAnywhere, msgNotFoundAnywhere, providerErrors, attempts), nil

	case atLeastHalf(t.Network):
		return nil, cep.NewConnectivityError(fmt.Sprintf(msgConnectivity, t.Network, t.Total), t)

	case atLeastHalf(t.Server):
		return nil, cep.NewServiceUnavailableError(fmt.Sprintf(msgUnavailable, t.Server, t.Total), t)

	case atLeastHalf(t.NotFound):
		return cep.NewNotFoundRecord(code, cep.TagNotFoundMost, msgNotFoundMost, providerErrors, attempts), nil

	case atLeastHalf(t.Network + t.Server):
		if t.Network > t.Server {
			return nil, cep.NewConnectivityError(fmt.Sprintf(msgMixedConnectivity, t.Network, t.NotFound), t)
		}
		return nil, cep.NewServiceUnavailableError(fmt.Sprintf(msgMixedUnavailable, t.Server, t.NotFound), t)

	default:
		return cep.NewNotFoundRecord(code, cep.TagMixedResults, msgNotFoundMost, providerErrors, attempts), nil
	}
}
