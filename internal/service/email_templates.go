package service

import "fmt"

func welcomeEmailTemplate(name, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Add your first goal and start logging progress:
%s

Mentors can see every goal. Other students only see the goals you mark public.

Best,
The %s Team`, name, dashboardURL, appName)

	return subject, body
}

func goalCompletedEmailTemplate(name, goalTitle, goalURL, appName string) (string, string) {
	subject := fmt.Sprintf("Goal completed: %s", goalTitle)
	body := fmt.Sprintf(`Hi %s,

An update just reported 100%% progress on "%s", so it is now marked Completed.

Review the log: %s

If there is still work left, reopen it by changing its status.

Best,
The %s Team`, name, goalTitle, goalURL, appName)

	return subject, body
}

func accountDeletedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account was deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account has been deleted, along with your goals and activity entries.

If this wasn't you, contact your lab administrator.

Best,
The %s Team`, name, appName)

	return subject, body
}
