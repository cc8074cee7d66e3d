package service

import "github.com/paimonworks/harem-service/internal/domain"

type seedCharacter struct {
	name   string
	anime  string
	gender domain.Gender
	rarity domain.Rarity
}

// seedCharacters is the starter catalog used when the database is
// empty. Admins extend or replace it through the catalog API.
var seedCharacters = []seedCharacter{
	{"Naruto Uzumaki", "Naruto", domain.GenderMale, domain.RarityLegendary},
	{"Sasuke Uchiha", "Naruto", domain.GenderMale, domain.RarityLegendary},
	{"Sakura Haruno", "Naruto", domain.GenderFemale, domain.RarityEpic},
	{"Hinata Hyuga", "Naruto", domain.GenderFemale, domain.RarityEpic},
	{"Kakashi Hatake", "Naruto", domain.GenderMale, domain.RarityLegendary},
	{"Konohamaru", "Naruto", domain.GenderMale, domain.RarityCommon},
	{"Tenten", "Naruto", domain.GenderFemale, domain.RarityCommon},
	{"Ino Yamanaka", "Naruto", domain.GenderFemale, domain.RarityCommon},
	{"Eren Yeager", "Attack on Titan", domain.GenderMale, domain.RarityLegendary},
	{"Mikasa Ackerman", "Attack on Titan", domain.GenderFemale, domain.RarityLegendary},
	{"Levi Ackerman", "Attack on Titan", domain.GenderMale, domain.RarityLegendary},
	{"Armin Arlert", "Attack on Titan", domain.GenderMale, domain.RarityEpic},
	{"Historia Reiss", "Attack on Titan", domain.GenderFemale, domain.RarityEpic},
	{"Izuku Midoriya", "My Hero Academia", domain.GenderMale, domain.RarityLegendary},
	{"Katsuki Bakugo", "My Hero Academia", domain.GenderMale, domain.RarityLegendary},
	{"Ochaco Uraraka", "My Hero Academia", domain.GenderFemale, domain.RarityEpic},
	{"Tsuyu Asui", "My Hero Academia", domain.GenderFemale, domain.RarityRare},
	{"Tanjiro Kamado", "Demon Slayer", domain.GenderMale, domain.RarityLegendary},
	{"Nezuko Kamado", "Demon Slayer", domain.GenderFemale, domain.RarityLegendary},
	{"Zenitsu Agatsuma", "Demon Slayer", domain.GenderMale, domain.RarityEpic},
	{"Shinobu Kocho", "Demon Slayer", domain.GenderFemale, domain.RarityLegendary},
	{"Monkey D. Luffy", "One Piece", domain.GenderMale, domain.RarityLegendary},
	{"Roronoa Zoro", "One Piece", domain.GenderMale, domain.RarityLegendary},
	{"Nami", "One Piece", domain.GenderFemale, domain.RarityEpic},
	{"Nico Robin", "One Piece", domain.GenderFemale, domain.RarityEpic},
	{"Usopp", "One Piece", domain.GenderMale, domain.RarityRare},
	{"Chopper", "One Piece", domain.GenderMale, domain.RarityRare},
	{"Goku", "Dragon Ball Z", domain.GenderMale, domain.RarityLegendary},
	{"Vegeta", "Dragon Ball Z", domain.GenderMale, domain.RarityLegendary},
	{"Gohan", "Dragon Ball Z", domain.GenderMale, domain.RarityEpic},
	{"Bulma", "Dragon Ball Z", domain.GenderFemale, domain.RarityRare},
	{"Krillin", "Dragon Ball Z", domain.GenderMale, domain.RarityCommon},
	{"Yamcha", "Dragon Ball Z", domain.GenderMale, domain.RarityCommon},
	{"Chi-Chi", "Dragon Ball Z", domain.GenderFemale, domain.RarityCommon},
	{"Edward Elric", "Fullmetal Alchemist: Brotherhood", domain.GenderMale, domain.RarityLegendary},
	{"Winry Rockbell", "Fullmetal Alchemist: Brotherhood", domain.GenderFemale, domain.RarityEpic},
	{"Riza Hawkeye", "Fullmetal Alchemist: Brotherhood", domain.GenderFemale, domain.RarityRare},
	{"Ichigo Kurosaki", "Bleach", domain.GenderMale, domain.RarityLegendary},
	{"Rukia Kuchiki", "Bleach", domain.GenderFemale, domain.RarityEpic},
	{"Orihime Inoue", "Bleach", domain.GenderFemale, domain.RarityRare},
	{"Kirito", "Sword Art Online", domain.GenderMale, domain.RarityLegendary},
	{"Asuna", "Sword Art Online", domain.GenderFemale, domain.RarityLegendary},
	{"Sinon", "Sword Art Online", domain.GenderFemale, domain.RarityEpic},
	{"Leafa", "Sword Art Online", domain.GenderFemale, domain.RarityRare},
	{"Paimon", "Genshin Impact", domain.GenderFemale, domain.RarityLegendary},
	{"Lumine", "Genshin Impact", domain.GenderFemale, domain.RarityLegendary},
	{"Venti", "Genshin Impact", domain.GenderMale, domain.RarityLegendary},
	{"Diluc", "Genshin Impact", domain.GenderMale, domain.RarityLegendary},
}
