package util

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// JWSToText renders a compact JWS for console output: decoded protected
// header and payload as indented JSON, signature truncated. Anything that
// is not a three part compact serialization is returned unchanged.
func JWSToText(jwsData string) string {
	parts := strings.Split(jwsData, ".")
	if len(parts) != 3 {
		return jwsData
	}

	signature := parts[2]
	if len(signature) > 10 {
		signature = signature[:10] + "..."
	}

	sb := strings.Builder{}
	sb.WriteString("base64url(")
	sb.WriteString(tokenPartToText(parts[0]))
	sb.WriteString(")\n.base64url(")
	sb.WriteString(tokenPartToText(parts[1]))
	sb.WriteString(")\n.signature(")
	sb.WriteString(signature)
	sb.WriteString(")")
	return sb.String()
}

func tokenPartToText(part string) string {
	dataBytes, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return part
	}

	dataMap := make(map[string]any)
	if err := json.Unmarshal(dataBytes, &dataMap); err != nil {
		return string(dataBytes)
	}

	jsonBytes, err := json.MarshalIndent(dataMap, "", "  ")
	if err != nil {
		return string(dataBytes)
	}

	return string(jsonBytes)
}
