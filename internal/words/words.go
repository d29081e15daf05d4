// Package words holds the static word bank: for every difficulty tier a
// list of (secret, category, decoy) triples. The decoy is shown only to
// the impostor and always shares the secret's category.
package words

import "math/rand"

const DefaultTier = "Media"

type Triple struct {
	Secret   string
	Category string
	Decoy    string
}

var tiers = map[string][]Triple{
	"Fácil": {
		{"Fernet", "Bebidas", "Coca-Cola"},
		{"Pizza", "Comida", "Hamburguesa"},
		{"Gato", "Animales", "Perro"},
		{"Futbol", "Deportes", "Basquet"},
		{"Playa", "Lugares", "Piscina"},
		{"Escuela", "Lugares", "Universidad"},
		{"Hospital", "Lugares", "Farmacia"},
		{"Aeropuerto", "Lugares", "Terminal"},
		{"Cine", "Salidas", "Teatro"},
		{"Supermercado", "Lugares", "Almacén"},
		{"Biblioteca", "Lugares", "Librería"},
		{"Gimnasio", "Lugares", "Parque"},
		{"Hotel", "Lugares", "Airbnb"},
		{"Restaurante", "Salidas", "Bar"},
		{"Camping", "Aire Libre", "Picnic"},
		{"Peluquería", "Lugares", "Barbería"},
		{"Iglesia", "Lugares", "Catedral"},
		{"Farmacia", "Lugares", "Hospital"},
		{"Estación de tren", "Transporte", "Subte"},
		{"Parque de diversiones", "Salidas", "Circo"},
		{"Casino", "Salidas", "Bingo"},
		{"Zoológico", "Paseos", "Granja"},
		{"Museo", "Paseos", "Galería"},
		{"Estadio de fútbol", "Lugares", "Cancha de barrio"},
	},
	"Media": {
		{"Messi", "Famosos", "Cristiano"},
		{"Sushi", "Comida", "Pescado"},
		{"Netflix", "Apps", "YouTube"},
		{"Python", "Tech", "Código"},
		{"Guitarra", "Música", "Violín"},
		{"Celular", "Tecnología", "Tablet"},
		{"Llaves", "Objetos", "Candado"},
		{"Mochila", "Objetos", "Valija"},
		{"Sillón", "Muebles", "Silla"},
		{"Mesa", "Muebles", "Escritorio"},
		{"Zapatillas", "Ropa", "Ojotas"},
		{"Botella", "Objetos", "Vaso"},
		{"Reloj", "Accesorios", "Pulsera"},
		{"Auriculares", "Tecnología", "Parlante"},
		{"Cuaderno", "Útiles", "Agenda"},
		{"Microondas", "Electrodomésticos", "Horno"},
		{"Espejo", "Objetos", "Vidrio"},
		{"Almohada", "Cama", "Colchón"},
		{"Control remoto", "Tecnología", "Joystick"},
		{"Ventilador", "Clima", "Aire Acondicionado"},
		{"Tostadora", "Cocina", "Sandwichera"},
		{"Lámpara", "Iluminación", "Linterna"},
		{"Paraguas", "Clima", "Piloto"},
		{"Escoba", "Limpieza", "Aspiradora"},
		{"Cámara de fotos", "Tecnología", "Celular"},
	},
	"Difícil": {
		{"Inflación", "Economía", "Pobreza"},
		{"Metaverso", "Tech", "Realidad Virtual"},
		{"Paradoja", "Filosofía", "Contradicción"},
		{"Melancolía", "Sentimientos", "Tristeza"},
		{"Burocracia", "Sociedad", "Trámite"},
		{"Caballo", "Animales", "Burro"},
		{"Elefante", "Animales", "Rinoceronte"},
		{"Tiburón", "Animales", "Delfín"},
		{"Águila", "Animales", "Halcón"},
		{"León", "Animales", "Tigre"},
		{"Pingüino", "Animales", "Pato"},
		{"Mono", "Animales", "Gorila"},
		{"Delfín", "Animales", "Ballena"},
	},
	"Picante": {
		{"Suegra", "Familia", "Madre"},
		{"Ex", "Relaciones", "Amigo"},
		{"Tinder", "Apps", "Instagram"},
		{"Motel", "Lugares", "Hotel"},
		{"Resaca", "Estados", "Borrachera"},
	},
}

// Bank implements engine.WordBank over the static tiers.
type Bank struct{}

// Next draws one triple uniformly from the requested tier, falling back
// to DefaultTier when the tier is unknown.
func (Bank) Next(difficulty string, rng *rand.Rand) (secret, category, decoy string) {
	list, ok := tiers[difficulty]
	if !ok {
		list = tiers[DefaultTier]
	}
	t := list[rng.Intn(len(list))]
	return t.Secret, t.Category, t.Decoy
}

// Tiers returns the known difficulty names, for clients building a menu.
func Tiers() []string {
	out := make([]string, 0, len(tiers))
	for name := range tiers {
		out = append(out, name)
	}
	return out
}
