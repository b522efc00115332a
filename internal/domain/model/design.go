//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// ColorScheme is one palette of the website design.
type ColorScheme struct {
	Primary    string `json:"primary"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Accent     string `json:"accent"`
}

// WebsiteConfiguration is the branding served by the design-settings endpoint.
type WebsiteConfiguration struct {
	Name         string      `json:"name"`
	DarkMode     ColorScheme `json:"darkMode"`
	LightMode    ColorScheme `json:"lightMode"`
	LogoImage    string      `json:"logoImage"`
	FavIconImage string      `json:"favIconImage"`
	Imprint      string      `json:"imprint"`
}

// DefaultWebsiteConfiguration is used until the backend design settings are loaded.
func DefaultWebsiteConfiguration() WebsiteConfiguration {
	return WebsiteConfiguration{
		Name:    "Sesam",
		Imprint: "Impressum",
		DarkMode: ColorScheme{
			Background: "#313338",
			Primary:    "#e20075",
			Surface:    "#2b2d31",
			Accent:     "#4d4d4d",
		},
		LightMode: ColorScheme{
			Background: "#FFFFFF",
			Primary:    "#e20075",
			Surface:    "#e8e8e8",
			Accent:     "#4d4d4d",
		},
	}
}

// Scheme returns the palette for the given mode.
func (c WebsiteConfiguration) Scheme(dark bool) ColorScheme {
	if dark {
		return c.DarkMode
	}
	return c.LightMode
}
