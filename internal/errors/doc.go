// Package errors provides the coded errors printed by the mini CLI.
//
// Each code maps to a category, a short message, a longer explanation and
// sometimes a hint:
//
//	err := errors.New("E121").WithContext(path)
//	errors.PrintError(err)
//	// ERROR E121: Configuration file not found
//	//
//	//     │ ./mini.json
//	//
//	//   No mini.json was found at the given path.
//	//
//	//   Hint: Run without --config to use the defaults
//
// FromError turns library errors into coded ones: a malformed element spec
// becomes E100, a bad selector E101, and so on.
//
// Codes:
//   - E100-E109: element specs, selectors and widgets
//   - E110-E119: AJAX requests
//   - E120-E129: mini.json
//   - E130-E139: command-line arguments
//   - E140-E149: the preview server
package errors
