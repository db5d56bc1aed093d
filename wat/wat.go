package wat

func Compile(source string) ([]byte, error) {
	p := newParser(tokenize(source))
	mod, err := p.parse()
	if err != nil {
		return nil, err
	}
	return encode(mod), nil
}
