package data

import _ "embed"

//go:embed help.en.template
var HelpTemplate string

//go:embed intro.en.template
var IntroTemplate string

//go:embed names.en.json
var NamesJSON []byte
