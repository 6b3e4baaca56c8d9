package notification

import (
	"fmt"
	"html"
	"net/url"
	"time"

	"anoa.com/jornalufc/pkg/mailer"
)

// ProfessorActivation asks a newly registered professor to confirm the address.
func ProfessorActivation(baseURL, name, email string) mailer.Message {
	link := fmt.Sprintf("%s/api/auth/verify?email=%s", baseURL, url.QueryEscape(email))
	body := fmt.Sprintf(`
<h1>Bem-vindo ao Jornal UFC!</h1>
<p>Olá professor(a) <b>%s</b>,</p>
<p>Para ativar sua conta e gerenciar bolsistas, clique no link abaixo:</p>
<a href="%s" style="padding: 10px; background-color: #007bff; color: white; text-decoration: none; border-radius: 5px;">ATIVAR MINHA CONTA</a>
`, html.EscapeString(name), html.EscapeString(link))

	return mailer.Message{
		Subject:    "Ativação de Conta - Jornal UFC",
		Recipients: []string{email},
		HTMLBody:   body,
	}
}

// SponsorshipRequest tells an orientor that a student is waiting for approval.
func SponsorshipRequest(orientorEmail, studentName, studentEmail string) mailer.Message {
	body := fmt.Sprintf(`
<h1>Nova Solicitação de Bolsista</h1>
<p>O aluno <b>%s</b> (%s) indicou você como orientador.</p>
<p>Acesse o painel do sistema para aprovar ou rejeitar esta solicitação.</p>
`, html.EscapeString(studentName), html.EscapeString(studentEmail))

	return mailer.Message{
		Subject:    "Aprovação Pendente - Jornal UFC",
		Recipients: []string{orientorEmail},
		HTMLBody:   body,
	}
}

func SponsorshipApproved(studentEmail, studentName, orientorName string) mailer.Message {
	body := fmt.Sprintf(`
<h1>Bolsa aprovada</h1>
<p>Olá <b>%s</b>,</p>
<p>O(a) professor(a) %s aprovou seu vínculo. Sua conta de bolsista está ativa e você já pode publicar matérias.</p>
`, html.EscapeString(studentName), html.EscapeString(orientorName))

	return mailer.Message{
		Subject:    "Vínculo de Bolsa Aprovado - Jornal UFC",
		Recipients: []string{studentEmail},
		HTMLBody:   body,
	}
}

func SponsorshipEnded(studentEmail, studentName, orientorName string) mailer.Message {
	body := fmt.Sprintf(`
<h1>Vínculo de bolsa encerrado</h1>
<p>Olá <b>%s</b>,</p>
<p>O(a) professor(a) %s encerrou seu vínculo de bolsista. Sua conta voltou a ser de leitor.</p>
`, html.EscapeString(studentName), html.EscapeString(orientorName))

	return mailer.Message{
		Subject:    "Vínculo de Bolsa Encerrado - Jornal UFC",
		Recipients: []string{studentEmail},
		HTMLBody:   body,
	}
}

func PasswordReset(email, token string, ttl time.Duration) mailer.Message {
	body := fmt.Sprintf(`
<h1>Recuperação de Senha</h1>
<p>Você solicitou a troca de senha. Use o token abaixo para definir uma nova senha:</p>
<p style="background: #eee; padding: 10px; font-family: monospace;">%s</p>
<p><b>Este token expira em %d minutos.</b></p>
`, html.EscapeString(token), int(ttl.Minutes()))

	return mailer.Message{
		Subject:    "Recuperação de Senha - Jornal UFC",
		Recipients: []string{email},
		HTMLBody:   body,
	}
}
