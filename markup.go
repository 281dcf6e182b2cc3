// markup.go: rendering markup elements to HTML text.
package n7tya

import "strings"

// RenderElement renders an element and its subtree. A tag matching a
// defined component expands through that component's render body instead
// of emitting a literal tag.
func (ip *Interp) RenderElement(el *MarkupElement) (string, error) {
	if comp, ok := ip.components[el.Tag]; ok {
		return ip.renderComponent(comp, el)
	}

	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(el.Tag)
	for _, attr := range el.Attrs {
		sb.WriteString(" ")
		sb.WriteString(attr.Name)
		sb.WriteString("=\"")
		if attr.Value == nil {
			sb.WriteString("true")
		} else {
			v, err := ip.evalExpr(attr.Value)
			if err != nil {
				return "", err
			}
			sb.WriteString(escapeHTML(v.Display()))
		}
		sb.WriteString("\"")
	}

	if len(el.Children) == 0 {
		sb.WriteString(" />")
		return sb.String(), nil
	}

	sb.WriteString(">")
	for _, child := range el.Children {
		switch ch := child.(type) {
		case *MarkupElement:
			html, err := ip.RenderElement(ch)
			if err != nil {
				return "", err
			}
			sb.WriteString(html)
		case *MarkupText:
			sb.WriteString(escapeHTML(ch.Text))
		case *MarkupSplice:
			v, err := ip.evalExpr(ch.Expr)
			if err != nil {
				return "", err
			}
			sb.WriteString(escapeHTML(v.Display()))
		}
	}
	sb.WriteString("</")
	sb.WriteString(el.Tag)
	sb.WriteString(">")
	return sb.String(), nil
}

// renderComponent runs a component's render body in a child scope holding
// its state and any attribute values passed at the use site.
func (ip *Interp) renderComponent(comp *ComponentDef, use *MarkupElement) (string, error) {
	if comp.Render == nil {
		return "", nil
	}
	saved := ip.env
	ip.env = NewEnv(ip.globals)
	defer func() { ip.env = saved }()

	for _, st := range comp.States {
		v, err := ip.evalExpr(st.Value)
		if err != nil {
			return "", err
		}
		ip.env.Define(st.Name, v)
	}
	for _, attr := range use.Attrs {
		v := BoolValue(true)
		if attr.Value != nil {
			var err error
			v, err = ip.evalExprIn(saved, attr.Value)
			if err != nil {
				return "", err
			}
		}
		ip.env.Define(attr.Name, v)
	}

	res, err := ip.execBlock(comp.Render.Body)
	if err != nil {
		return "", err
	}
	if res.signal == sigReturn || res.signal == sigValue {
		if res.value.Tag == StrV {
			return res.value.Str(), nil
		}
		if res.value.Tag != NoneV {
			return res.value.Display(), nil
		}
	}
	return "", nil
}

// evalExprIn evaluates an expression against a specific environment.
func (ip *Interp) evalExprIn(env *Env, expr Expr) (Value, error) {
	saved := ip.env
	ip.env = env
	defer func() { ip.env = saved }()
	return ip.evalExpr(expr)
}

// escapeHTML escapes text for element content and attribute values.
func escapeHTML(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		case '\'':
			sb.WriteString("&#39;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
