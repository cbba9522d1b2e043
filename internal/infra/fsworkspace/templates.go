package fsworkspace

import "embed"

//go:embed templates/beerprep.yaml templates/conf/vae_nflow.yaml
var templatesFS embed.FS
