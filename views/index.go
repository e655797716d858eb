package views

import "strconv"

type IndexProps struct {
	GoogleEnabled bool
	GuestEnabled  bool
	Theme         string
	Language      string
	FontScale     float64
}

type pageText struct {
	title   string
	tagline string
	google  string
	guest   string
}

var texts = map[string]pageText{
	"en": {
		title:   "Fintrack: income and expenses",
		tagline: "Track what comes in and what goes out.",
		google:  "Sign in with Google",
		guest:   "Continue as guest",
	},
	"es": {
		title:   "Fintrack: ingresos y gastos",
		tagline: "Registra lo que entra y lo que sale.",
		google:  "Entrar con Google",
		guest:   "Continuar como invitado",
	},
}

// textFor returns the page labels for lang, falling back to English
func textFor(lang string) pageText {
	if t, ok := texts[lang]; ok {
		return t
	}
	return texts["en"]
}

func fontScale(scale float64) string {
	return strconv.FormatFloat(scale, 'f', 2, 64)
}
