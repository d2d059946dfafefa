package model

import "sort"

// CatalogEntry is a code and its display name.
type CatalogEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SectoresSCIAN maps 2-digit SCIAN sector codes to sector names.
var SectoresSCIAN = map[string]string{
	"11": "Agricultura, cría y explotación de animales, aprovechamiento forestal, pesca y caza",
	"21": "Minería",
	"22": "Generación, transmisión y distribución de energía eléctrica, suministro de agua y gas",
	"23": "Construcción",
	"31": "Industrias manufactureras (alimentos, bebidas, textiles)",
	"32": "Industrias manufactureras (madera, papel, química, plásticos)",
	"33": "Industrias manufactureras (metálicas, maquinaria, equipo)",
	"43": "Comercio al por mayor",
	"46": "Comercio al por menor",
	"48": "Transportes",
	"49": "Correos y almacenamiento",
	"51": "Información en medios masivos",
	"52": "Servicios financieros y de seguros",
	"53": "Servicios inmobiliarios y de alquiler de bienes muebles e intangibles",
	"54": "Servicios profesionales, científicos y técnicos",
	"55": "Corporativos",
	"56": "Servicios de apoyo a los negocios y manejo de residuos",
	"61": "Servicios educativos",
	"62": "Servicios de salud y de asistencia social",
	"71": "Servicios de esparcimiento culturales y deportivos",
	"72": "Servicios de alojamiento temporal y de preparación de alimentos y bebidas",
	"81": "Otros servicios excepto actividades gubernamentales",
	"93": "Actividades legislativas, gubernamentales, de impartición de justicia",
}

// EstadosMexico maps state abbreviations to state names.
var EstadosMexico = map[string]string{
	"AGS":  "Aguascalientes",
	"BC":   "Baja California",
	"BCS":  "Baja California Sur",
	"CAM":  "Campeche",
	"CHIS": "Chiapas",
	"CHIH": "Chihuahua",
	"CDMX": "Ciudad de México",
	"COAH": "Coahuila",
	"COL":  "Colima",
	"DGO":  "Durango",
	"GTO":  "Guanajuato",
	"GRO":  "Guerrero",
	"HGO":  "Hidalgo",
	"JAL":  "Jalisco",
	"MEX":  "Estado de México",
	"MICH": "Michoacán",
	"MOR":  "Morelos",
	"NAY":  "Nayarit",
	"NL":   "Nuevo León",
	"OAX":  "Oaxaca",
	"PUE":  "Puebla",
	"QRO":  "Querétaro",
	"QROO": "Quintana Roo",
	"SLP":  "San Luis Potosí",
	"SIN":  "Sinaloa",
	"SON":  "Sonora",
	"TAB":  "Tabasco",
	"TAM":  "Tamaulipas",
	"TLAX": "Tlaxcala",
	"VER":  "Veracruz",
	"YUC":  "Yucatán",
	"ZAC":  "Zacatecas",
}

const (
	RegionNorth  = "North"
	RegionCenter = "Center"
	RegionSouth  = "South"
	RegionOther  = "Other"
)

var stateRegions = map[string]string{
	"NL": RegionNorth, "CHIH": RegionNorth, "TAM": RegionNorth, "COAH": RegionNorth, "SON": RegionNorth,
	"CDMX": RegionCenter, "MEX": RegionCenter, "PUE": RegionCenter, "HGO": RegionCenter, "QRO": RegionCenter,
	"CHIS": RegionSouth, "OAX": RegionSouth, "TAB": RegionSouth, "CAM": RegionSouth, "YUC": RegionSouth, "QROO": RegionSouth,
}

// RegionOf groups an upper-cased state code into a region.
func RegionOf(state string) string {
	if r, ok := stateRegions[state]; ok {
		return r
	}
	return RegionOther
}

// Sectors returns the SCIAN catalog sorted by code.
func Sectors() []CatalogEntry {
	return sortedEntries(SectoresSCIAN)
}

// States returns the state catalog sorted by code.
func States() []CatalogEntry {
	return sortedEntries(EstadosMexico)
}

func sortedEntries(m map[string]string) []CatalogEntry {
	out := make([]CatalogEntry, 0, len(m))
	for code, name := range m {
		out = append(out, CatalogEntry{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
