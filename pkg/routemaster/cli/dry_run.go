package cli

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/routemaster-go/routemaster/pkg/util"
)

// dryRunDoer prints each request to out and answers 204 without sending it.
type dryRunDoer struct {
	out io.Writer
}

func (d *dryRunDoer) Do(req *http.Request) (*http.Response, error) {
	fmt.Fprintf(d.out, "%s %s\n", req.Method, req.URL)
	if req.Body != nil {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		_ = req.Body.Close()
		fmt.Fprintln(d.out, util.PrettyJSON(raw))
	}

	return &http.Response{
		Status:     "204 No Content",
		StatusCode: http.StatusNoContent,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}
