package wordlist

var level1Words = []string{
	"bus", "dvi", "gal", "iki", "jau", "jis", "kas", "kur", "kad", "kai",
	"mes", "man", "nuo", "nes", "ora", "per", "pas", "su", "sau", "tik",
	"ten", "tu", "vis", "akis", "bala", "dama", "gera", "gali", "gana", "jura",
	"jums", "kava", "koja", "lova", "mama", "mano", "nori", "namo", "sala", "savo",
	"tavo", "taip", "ugni", "visi",
}

var level2Words = []string{
	"akmuo", "batas", "burna", "daina", "diena", "duona", "dalis", "darbas", "eglute", "gatve",
	"geras", "galas", "gerai", "grazus", "ilgai", "jaunas", "juosta", "kaina", "kalba", "kelias",
	"knyga", "langas", "lapas", "laukas", "lietus", "medis", "miegas", "miestas", "molis", "namas",
	"naktis", "naujas", "oras", "pienas", "puode", "ranka", "ratas", "rytas", "ruduo", "siena",
	"stalas", "sapnas", "sniegas", "suolas", "tiltas", "ugnis", "upele", "vanduo", "vaikas", "vasara",
	"veidas", "zodis", "ziedas", "ziema",
}

var level3Words = []string{
	"aukstas", "ausine", "balkonas", "baseinas", "dangus", "darbas", "draugas", "durys", "gyventi", "istorija",
	"jaunas", "juosta", "kalnas", "kambarys", "kelias", "knyga", "laiptai", "laikas", "langas", "laukas",
	"lietuva", "maistas", "medinis", "miestas", "mokykla", "muzika", "namuose", "naktis", "naujas", "pasaulis",
	"pienas", "plaukai", "puodelis", "raudona", "ruduo", "saulute", "stalas", "sniegas", "sodas", "sveikas",
	"tiltas", "ugnis", "upele", "vanduo", "vaikas", "vasara", "veidas", "zodis", "ziedas", "ziema",
}

var level4Words = []string{
	"auksinis", "automobilis", "balkonas", "baseinas", "danguje", "darbinis", "draugas", "dureles", "eglutes", "gatvele",
	"grazumas", "gyventi", "istorija", "jaunimas", "juostele", "kalnelis", "kambarys", "keliauti", "knygyne", "laiptais",
	"laikrodis", "langelis", "laukelis", "lietuvoje", "maistinis", "medinis", "miestelis", "mokykla", "muzikinis", "namuose",
	"naktinis", "naujausias", "oranziniu", "pasaulis", "pieninis", "plaukikas", "puodelis", "raudonas", "rudeninis", "saulute",
	"stalinis", "snieginis", "sodinukas", "sveikatos", "tiltinis", "ugninis", "upelinis", "vandeninis", "vaikiskas", "vasarinis",
	"veidrodis", "zodynai", "ziedinis", "zieminis",
}
