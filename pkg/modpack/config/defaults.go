// Package config provides configuration management for modpack.
package config

// Default configuration values for modpack. They describe the Nest Rarity
// Locker mod for REFramework and Fluffy Mod Manager.
const (
	// DefaultModName is the display name written to modinfo.ini.
	DefaultModName = "Nest Rarity Locker"

	// DefaultDescription is the description written to modinfo.ini.
	DefaultDescription = "A mod for Monster Hunter Stories 3 that allows players to lock the nest rarity to the maximum level."

	// DefaultScreenshot is the cover image copied into the archive.
	DefaultScreenshot = "src/assets/screenshot.png"

	// DefaultCategory is the mod manager category.
	DefaultCategory = "Gameplay"

	// DefaultHomepage is the mod's homepage.
	DefaultHomepage = "https://www.nexusmods.com/#"

	// DefaultScriptPath is the Lua script that carries the mod version.
	DefaultScriptPath = "src/nest_rarity_locker.lua"

	// DefaultScriptName is the file name of the staged script.
	DefaultScriptName = "nest_rarity_locker.lua"

	// DefaultWorkDir is the staging root.
	DefaultWorkDir = ".temp"

	// DefaultModRoot is the mod loader directory inside the staging root.
	DefaultModRoot = "reframework"

	// DefaultModuleName names the reserved module directory under autorun.
	DefaultModuleName = "NestRarityLocker"

	// DefaultArchivePrefix is the archive file name prefix.
	DefaultArchivePrefix = "NestRarityLocker"

	// DefaultOutputDir is where the archive is written.
	DefaultOutputDir = "."

	// DefaultVersionRecord is the version record path.
	DefaultVersionRecord = "version.json"

	// DefaultRetentionDays is the default number of days to keep build history.
	DefaultRetentionDays = 90

	// ConfigName is the base name of the project config file.
	ConfigName = "modpack"
)

// DefaultAuthors lists the mod's contributors.
var DefaultAuthors = []string{
	"Egg Targaryen",
}
