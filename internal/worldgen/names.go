package worldgen

// Fantasy name pools. Everything here is invented; no real-world identities.

type teamSeed struct {
	name    string
	stadium string
}

var premierTeams = []teamSeed{
	{"United Dragons", "Dragonfire Park"},
	{"City Phoenix", "Ashes Arena"},
	{"Rovers Wolves", "Howling Ground"},
	{"Athletic Eagles", "Eyrie Stadium"},
	{"Town Tigers", "Striped Lane"},
	{"Villa Lions", "Pride Park"},
	{"Wanderers Hawks", "Talon Field"},
	{"County Bears", "Den Road"},
	{"Forest Foxes", "Burrow End"},
	{"United Sharks", "Deepwater Bowl"},
}

var laTeams = []teamSeed{
	{"Real Dragones", "Estadio del Fuego"},
	{"Barcelona Soles", "Campo del Sol"},
	{"Atletico Tormentas", "Estadio Tormenta"},
	{"Valencia Llamas", "Campo Llama"},
	{"Sevilla Vientos", "Estadio del Viento"},
	{"Villarreal Ondas", "Campo de Ondas"},
	{"Real Aguilas", "Nido Real"},
	{"Betis Estrellas", "Campo Estelar"},
	{"Athletic Truenos", "Estadio Trueno"},
	{"Celta Cometas", "Campo Cometa"},
}

var firstNames = []string{
	"Alaric", "Bram", "Cassian", "Dorian", "Emeric", "Fenn", "Gareth",
	"Hale", "Idris", "Joral", "Kael", "Lucan", "Magnus", "Nico", "Orin",
	"Pax", "Quillon", "Rurik", "Soren", "Torin", "Ulric", "Varen",
	"Wystan", "Xander", "Yorick", "Zane", "Aldo", "Benedikt", "Ciro",
	"Dante", "Esteban", "Fabio", "Gonzalo", "Hernan", "Ivo", "Joaquin",
	"Karim", "Lorenzo", "Mateo", "Nuno",
}

var lastNames = []string{
	"Ashford", "Blackwood", "Crane", "Draven", "Elderwood", "Frost",
	"Grimsby", "Hawthorne", "Ironside", "Jarvis", "Kestrel", "Lockhart",
	"Mortlake", "Nightingale", "Oakes", "Pemberton", "Quill", "Ravenscroft",
	"Sterling", "Thorne", "Underhill", "Vane", "Whitlock", "Yewdale",
	"Zephyr", "Alvarado", "Bravo", "Castillo", "Delgado", "Escudero",
	"Fierro", "Granados", "Herrera", "Izquierdo", "Jurado", "Lobo",
	"Montero", "Navarro", "Ortega", "Pantoja",
}

var outletSeeds = []struct {
	name string
	kind string
}{
	{"The Fantasy Gazette", "newspaper"},
	{"League Vision", "tv"},
	{"Radio Touchline", "radio"},
	{"The Terrace Wire", "online"},
}

var ownerFirstNames = []string{
	"Aurelia", "Benedict", "Constance", "Darius", "Elowen", "Frederich",
	"Giselle", "Hugo", "Isadora", "Jasper", "Katarina", "Leopold",
	"Marguerite", "Nikolai", "Octavia", "Percival", "Quintessa", "Roderick",
	"Seraphina", "Theodric",
}

var staffRoles = []string{"Head Coach", "Physio"}
