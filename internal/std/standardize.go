// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package std rewrites RPAL parse trees into the standard form.
//
// Standardization reduces every surface binding form to gamma and
// lambda. Conditionals, tau, aug and the operator nodes are left in
// place; the CSE machine evaluates them directly. The rewrite is
// post-order: a node's children are standardized before the node itself,
// so each rule can rely on its operands already being standard.
package std

import (
	"fmt"

	"nickandperla.net/rpal/internal/ast"
	"nickandperla.net/rpal/internal/diag"
)

// YStarLabel is the label of the fixed-point combinator node introduced
// by the rec rewrite.
const YStarLabel = "<Y*>"

// Standardize returns the standard form of the given parse tree.
func Standardize(n *ast.Node) (*ast.Node, error) {
	children := make([]*ast.Node, len(n.Children))
	for i, c := range n.Children {
		sc, err := Standardize(c)
		if err != nil {
			return nil, err
		}
		children[i] = sc
	}

	switch n.Label {
	case "let":
		// let X = E1 in E2  =>  gamma(lambda(X, E2), E1)
		def, err := binding(children[0], "let")
		if err != nil {
			return nil, err
		}
		return gamma(lambda(def.Children[0], children[1]), def.Children[1]), nil

	case "where":
		// E2 where X = E1  =>  gamma(lambda(X, E2), E1)
		def, err := binding(children[1], "where")
		if err != nil {
			return nil, err
		}
		return gamma(lambda(def.Children[0], children[0]), def.Children[1]), nil

	case "lambda":
		// fn V1..Vn . E  =>  lambda(V1, lambda(V2, ... lambda(Vn, E)))
		if len(children) < 2 {
			return nil, shape("lambda", "at least one binding and a body")
		}
		return curry(children[:len(children)-1], children[len(children)-1]), nil

	case "function_form":
		// F V1..Vn = E  =>  = F (nested lambdas over Vi of E)
		if len(children) < 3 {
			return nil, shape("function_form", "a name, bindings and a body")
		}
		body := curry(children[1:len(children)-1], children[len(children)-1])
		return ast.New("=", children[0], body), nil

	case "within":
		// (X1 = E1) within (X2 = E2)  =>  X2 = gamma(lambda(X1, E2), E1)
		outer, err := binding(children[0], "within")
		if err != nil {
			return nil, err
		}
		inner, err := binding(children[1], "within")
		if err != nil {
			return nil, err
		}
		value := gamma(lambda(outer.Children[0], inner.Children[1]), outer.Children[1])
		return ast.New("=", inner.Children[0], value), nil

	case "and":
		// and(X1=E1, ..., Xk=Ek)  =>  = (, X1..Xk) (tau E1..Ek)
		vars := make([]*ast.Node, len(children))
		vals := make([]*ast.Node, len(children))
		for i, c := range children {
			def, err := binding(c, "and")
			if err != nil {
				return nil, err
			}
			vars[i] = def.Children[0]
			vals[i] = def.Children[1]
		}
		return ast.New("=", ast.New(",", vars...), ast.New("tau", vals...)), nil

	case "rec":
		// rec X = E  =>  X = gamma(Y*, lambda(X, E))
		def, err := binding(children[0], "rec")
		if err != nil {
			return nil, err
		}
		name := def.Children[0]
		if _, ok := name.IDName(); !ok {
			return nil, shape("rec", "an identifier on the left of =")
		}
		fix := gamma(ast.New(YStarLabel), lambda(name, def.Children[1]))
		return ast.New("=", name, fix), nil

	case "@":
		// E1 @ F E2  =>  gamma(gamma(F, E1), E2)
		if len(children) != 3 {
			return nil, shape("@", "a left operand, a name and a right operand")
		}
		return gamma(gamma(children[1], children[0]), children[2]), nil
	}

	return ast.New(n.Label, children...), nil
}

func gamma(rator, rand *ast.Node) *ast.Node {
	return ast.New("gamma", rator, rand)
}

func lambda(bv, body *ast.Node) *ast.Node {
	return ast.New("lambda", bv, body)
}

// curry folds a binding list into right-nested single-binding lambdas.
func curry(bindings []*ast.Node, body *ast.Node) *ast.Node {
	result := body
	for i := len(bindings) - 1; i >= 0; i-- {
		result = lambda(bindings[i], result)
	}
	return result
}

// binding checks that a definition node is an = with two children.
func binding(n *ast.Node, context string) (*ast.Node, error) {
	if n.Label != "=" || len(n.Children) != 2 {
		return nil, shape(context, "a definition of the form X = E")
	}
	return n, nil
}

func shape(context, want string) error {
	return &diag.StandardizationError{
		Msg: fmt.Sprintf("malformed %s node: want %s", context, want),
	}
}
