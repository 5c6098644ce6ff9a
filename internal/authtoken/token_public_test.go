// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package authtoken_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/gateway/internal/authtoken"
)

const signingKey = "test-signing-key"

type TokenPublicTestSuite struct {
	suite.Suite

	tm *authtoken.Token
}

func (s *TokenPublicTestSuite) SetupTest() {
	s.tm = authtoken.New(slog.Default())
}

func (s *TokenPublicTestSuite) TestGenerateAndValidate() {
	token, err := s.tm.Generate(signingKey, "user-42", "admin", time.Hour)
	s.Require().NoError(err)
	s.NotEmpty(token)

	claims, err := s.tm.Validate(token, signingKey)
	s.Require().NoError(err)
	s.Equal("user-42", claims.Subject)
	s.Equal("admin", claims.Role)
	s.True(claims.ExpiresAt.After(time.Now()))
}

func (s *TokenPublicTestSuite) TestValidateRejectsWrongKey() {
	token, err := s.tm.Generate(signingKey, "user-42", "user", time.Hour)
	s.Require().NoError(err)

	claims, err := s.tm.Validate(token, "a-different-key")

	s.Error(err)
	s.Nil(claims)
}

func (s *TokenPublicTestSuite) TestValidateRejectsExpired() {
	token, err := s.tm.Generate(signingKey, "user-42", "user", -time.Minute)
	s.Require().NoError(err)

	claims, err := s.tm.Validate(token, signingKey)

	s.Error(err)
	s.Nil(claims)
}

func (s *TokenPublicTestSuite) TestValidateRejectsMissingSubject() {
	token, err := s.tm.Generate(signingKey, "", "user", time.Hour)
	s.Require().NoError(err)

	claims, err := s.tm.Validate(token, signingKey)

	s.Error(err)
	s.Nil(claims)
	s.Contains(err.Error(), "no subject")
}

func (s *TokenPublicTestSuite) TestValidateRejectsUnsignedToken() {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &authtoken.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	claims, err := s.tm.Validate(token, signingKey)

	s.Error(err)
	s.Nil(claims)
}

func (s *TokenPublicTestSuite) TestValidateRejectsGarbage() {
	claims, err := s.tm.Validate("not-a-jwt", signingKey)

	s.Error(err)
	s.Nil(claims)
}

func TestTokenPublicTestSuite(t *testing.T) {
	suite.Run(t, new(TokenPublicTestSuite))
}
