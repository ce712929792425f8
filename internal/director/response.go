package director

import "strings"

// InterpretResponse classifies a raw response against the command that
// produced it. Every response must start with a verbatim echo of the
// command followed by CR; anything else means the stream is desynchronized
// and the session is unusable.
//
// The remainder is the result body. Two literal markers are recognized:
// "xx<command>xx\r" is the amplifier's rejection, "01<command>\r" its
// explicit success. Commands without a success marker (the status dumps)
// are interpreted with expectSuccessCode=false and always succeed with the
// raw body.
func InterpretResponse(command, response string, expectSuccessCode bool) (bool, string, error) {
	echo, result, found := strings.Cut(response, "\r")
	if !found || echo != command {
		return false, "", &EchoMismatchError{Sent: command, Got: echo}
	}

	// Marker lines end in CR but arrive with the line feed of the CRLF
	// terminator still attached.
	marker := strings.TrimSuffix(result, "\n")

	if marker == "xx"+command+"xx\r" {
		return false, "", ErrBadCommand
	}

	succeeded := marker == "01"+command+"\r"
	if expectSuccessCode {
		return succeeded, result, nil
	}
	return true, result, nil
}
