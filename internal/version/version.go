package version

const Value = "1.0.0"

func String() string {
	return "normalizeurl " + Value
}
