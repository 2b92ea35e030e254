// Package config loads the parameters of a mosaic batch run.
//
// Values come from three layers, later ones winning: [Default], an optional
// YAML file (the --config flag or the MOZAIKER_CONFIG environment variable,
// resolved by [Path]), and command-line flags applied by the caller.
// [Config.Validate] must be called after the last layer is applied.
//
// Example file:
//
//	main_image: bbb.jpg
//	tile_dir: photo_lib
//	scale: 10
//	tile_resolution: 100
//	output:
//	  mosaic: mosaic.png
//	  tiles_dir: tiles
//	  manifest: tiles/manifest.yaml
package config
