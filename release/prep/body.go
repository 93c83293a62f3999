package prep

import (
	"strings"

	"github.com/valyala/fasttemplate"
)

// bodyTemplate is the fixed pull request body. The
// checklist items are follow-up tasks the release
// manager performs by hand after merging.
const bodyTemplate = `Automated release preparation for ` + "`v{{version}}`" + `, dispatched by @{{actor}} from {{commit}}.

### Follow-up tasks

- [ ] Review the updated changelog.
- [ ] Once merged, create + push a tag.

---
*Created by [this run]({{server}}/{{repository}}/actions/runs/{{run_id}}).*
`

// PRBody renders the pull request body for a run.
// repository is the "owner/name" slug; server is the
// host base URL (e.g. "https://github.com"); runID
// back-links the PR to the run that created it.
func PRBody(
	version string,
	actor string,
	commit string,
	server string,
	repository string,
	runID string,
) string {
	return fasttemplate.ExecuteStringStd(
		bodyTemplate, "{{", "}}",
		map[string]any{
			"version":    version,
			"actor":      actor,
			"commit":     commit,
			"server":     strings.TrimSuffix(server, "/"),
			"repository": repository,
			"run_id":     runID,
		},
	)
}
