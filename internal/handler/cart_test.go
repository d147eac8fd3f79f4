// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
)

func TestCart_AddViewRemove(t *testing.T) {
	app := newTestApp(t)
	app.createProduct("Football", 499, "Outdoor", "football.jpeg")
	app.createProduct("Cricket Bat", 1299, "Outdoor", "cricket_bat.jpeg")
	c := app.client()

	assertRedirect(t, c.get("/add_to_cart/Football"), "/products")
	assertRedirect(t, c.get("/add_to_cart/Football"), "/products")
	assertRedirect(t, c.get("/add_to_cart/Cricket%20Bat"), "/products")

	rec := c.get("/cart")
	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(),
		`<span class="badge">3</span>`,
		"<td>Football</td>",
		"₹998.00",
		"<td>Cricket Bat</td>",
		`<th class="total">₹2,297.00</th>`,
	)

	assertRedirect(t, c.get("/remove_from_cart/Football"), "/cart")

	rec = c.get("/cart")
	assertNotContains(t, rec.Body.String(), "<td>Football</td>")
	assertContains(t, rec.Body.String(), `<th class="total">₹1,299.00</th>`)
}

func TestCart_UnknownProductSkipped(t *testing.T) {
	app := newTestApp(t)
	app.createProduct("Football", 499, "Outdoor", "football.jpeg")
	c := app.client()

	c.get("/add_to_cart/Ghost")
	c.get("/add_to_cart/Football")

	rec := c.get("/cart")
	assertNotContains(t, rec.Body.String(), "Ghost")
	assertContains(t, rec.Body.String(), `<th class="total">₹499.00</th>`)
}

func TestCart_RemoveAbsentIsNoop(t *testing.T) {
	app := newTestApp(t)
	c := app.client()

	assertRedirect(t, c.get("/remove_from_cart/Nothing"), "/cart")
	assertContains(t, c.get("/cart").Body.String(), "Your cart is empty.")
}

func TestCart_UsesCurrentPrice(t *testing.T) {
	app := newTestApp(t)
	p := app.createProduct("Football", 499, "Outdoor", "football.jpeg")
	c := app.client()
	c.get("/add_to_cart/Football")

	// Admin changes the price after the item was added.
	admin := app.client()
	admin.loginAsAdmin()
	token := admin.csrfToken("/admin")
	rec := admin.post("/admin/update/"+itoa(p.ID), formValues(token, "Football", "550", "Outdoor", ""))
	assertRedirect(t, rec, "/admin")

	assertContains(t, c.get("/cart").Body.String(), `<th class="total">₹550.00</th>`)
}

func TestProductNameParam_EscapedSlash(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/add_to_cart/a%2Fb", nil)
	if req.URL.RawPath == "" {
		t.Skip("request carries no raw path")
	}

	app := newTestApp(t)
	app.createProduct("a/b", 10, "Misc", "ab.png")
	c := app.client()
	assertRedirect(t, c.do(req), "/products")

	assertContains(t, c.get("/cart").Body.String(), `<th class="total">₹10.00</th>`)
}

var (
	addLinkRe    = regexp.MustCompile(`href="(/add_to_cart/[^"]+)"`)
	removeLinkRe = regexp.MustCompile(`href="(/remove_from_cart/[^"]+)"`)
)

func links(t *testing.T, re *regexp.Regexp, body string) []string {
	t.Helper()
	var out []string
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		out = append(out, m[1])
	}
	return out
}

func TestCart_RenderedLinksEscapeReservedCharacters(t *testing.T) {
	app := newTestApp(t)
	app.createProduct("50/50 Ball", 100, "Outdoor", "ball.png")
	app.createProduct("Ball?", 200, "Outdoor", "ball2.png")
	c := app.client()

	adds := links(t, addLinkRe, c.get("/products").Body.String())
	want := []string{"/add_to_cart/50%2F50%20Ball", "/add_to_cart/Ball%3F"}
	if len(adds) != len(want) {
		t.Fatalf("add links = %v, want %v", adds, want)
	}
	for i, link := range adds {
		if link != want[i] {
			t.Errorf("add link[%d] = %q, want %q", i, link, want[i])
		}
		assertRedirect(t, c.get(link), "/products")
	}

	body := c.get("/cart").Body.String()
	assertContains(t, body, "<td>50/50 Ball</td>", "<td>Ball?</td>", `<th class="total">₹300.00</th>`)

	removes := links(t, removeLinkRe, body)
	if len(removes) != 2 {
		t.Fatalf("remove links = %v, want 2", removes)
	}
	for _, link := range removes {
		assertRedirect(t, c.get(link), "/cart")
	}
	assertContains(t, c.get("/cart").Body.String(), "Your cart is empty.")
}
